package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bookbnb/rental-ledger-go/ledger"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/eventfeed"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func listingIDParam(c echo.Context) (core.ListingID, error) {
	id, err := core.ParseListingID(c.Param("id"))
	if err != nil || id == 0 {
		return 0, badRequest("invalid listing id")
	}

	return id, nil
}

func moneyField(name, value string) (core.Money, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return core.Money{}, badRequest("invalid field " + name + ": numeric")
	}

	return amount, nil
}

// POST /v1/listings
func (s *Server) listBook(c echo.Context) error {
	owner, err := s.principalFrom(c)
	if err != nil {
		return err
	}

	var req listBookRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	input := ledger.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		ImageRef:    req.ImageRef,
	}

	if input.PricePerDay, err = moneyField("PricePerDay", req.PricePerDay); err != nil {
		return err
	}
	if input.LateFeePerDay, err = moneyField("LateFeePerDay", req.LateFeePerDay); err != nil {
		return err
	}
	if input.Deposit, err = moneyField("Deposit", req.Deposit); err != nil {
		return err
	}

	id, err := s.ledger.List(c.Request().Context(), owner, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, listBookResponse{ID: id})
}

// POST /v1/listings/:id/rent
func (s *Server) rentBook(c echo.Context) error {
	renter, err := s.principalFrom(c)
	if err != nil {
		return err
	}

	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	var req rentBookRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	payment, err := moneyField("Payment", req.Payment)
	if err != nil {
		return err
	}

	receipt, err := s.ledger.Rent(c.Request().Context(), renter, id, *req.Days, payment)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, rentReceiptResponseFrom(receipt))
}

// POST /v1/listings/:id/return
func (s *Server) returnBook(c echo.Context) error {
	caller, err := s.principalFrom(c)
	if err != nil {
		return err
	}

	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	receipt, err := s.ledger.Return(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, returnReceiptResponseFrom(receipt))
}

// GET /v1/me/rentals
func (s *Server) myRentals(c echo.Context) error {
	renter, err := s.principalFrom(c)
	if err != nil {
		return err
	}

	return s.respondRentals(c, renter)
}

// GET /v1/renters/:principal/rentals
func (s *Server) rentalsOf(c echo.Context) error {
	return s.respondRentals(c, c.Param("principal"))
}

func (s *Server) respondRentals(c echo.Context, renter core.PrincipalString) error {
	ids, err := s.ledger.RentalsOf(c.Request().Context(), renter)
	if err != nil {
		return err
	}

	if ids == nil {
		ids = []core.ListingID{}
	}

	return c.JSON(http.StatusOK, rentalsResponse{Renter: renter, ListingIDs: ids})
}

// GET /v1/renters/:principal/rentals/:id
func (s *Server) hasRented(c echo.Context) error {
	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	rented, err := s.ledger.HasRented(c.Request().Context(), c.Param("principal"), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"rented": rented})
}

// GET /v1/listings
func (s *Server) listListings(c echo.Context) error {
	all, err := s.ledger.Listings(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listingResponsesFrom(all))
}

// GET /v1/listings/total
func (s *Server) total(c echo.Context) error {
	total, err := s.ledger.Total(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

// GET /v1/listings/:id
func (s *Server) getListing(c echo.Context) error {
	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	listing, err := s.ledger.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listingResponseFrom(listing))
}

// GET /v1/listings/:id/details
func (s *Server) details(c echo.Context) error {
	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	details, err := s.ledger.Details(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detailsResponseFrom(details))
}

// GET /v1/listings/:id/due-date
func (s *Server) dueDate(c echo.Context) error {
	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	dueDate, err := s.ledger.DueDate(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"due_date": unixSeconds(dueDate)})
}

// GET /v1/listings/:id/late
func (s *Server) isLate(c echo.Context) error {
	id, err := listingIDParam(c)
	if err != nil {
		return err
	}

	late, lateDays, err := s.ledger.IsLate(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"is_late": late, "late_days": lateDays})
}

// GET /v1/escrow/statement
func (s *Server) escrowStatement(c echo.Context) error {
	statement, err := s.ledger.EscrowStatement(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statementResponseFrom(statement))
}

// GET /v1/events?after=&limit=
func (s *Server) events(c echo.Context) error {
	var after uint64
	limit := eventfeed.DefaultLimit

	if raw := c.QueryParam("after"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest("invalid after")
		}
		after = parsed
	}

	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return badRequest("invalid limit")
		}
		limit = parsed
	}

	feed, err := s.ledger.Events(c.Request().Context(), uint(after), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, feedResponseFrom(feed))
}

// GET /v1/rules/max-rental-days
func (s *Server) maxRentalDays(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"max_rental_days": s.ledger.MaxRentalDays()})
}
