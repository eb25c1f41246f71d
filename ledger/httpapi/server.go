package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookbnb/rental-ledger-go/ledger"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/escrowstatement"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/eventfeed"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/listingdetails"
)

// Ledger is the part of ledger.Ledger the server calls.
type Ledger interface {
	List(ctx context.Context, owner core.PrincipalString, input ledger.ListingInput) (core.ListingID, error)
	Rent(ctx context.Context, caller core.PrincipalString, id core.ListingID, days int, payment core.Money) (ledger.RentReceipt, error)
	Return(ctx context.Context, caller core.PrincipalString, id core.ListingID) (ledger.ReturnReceipt, error)
	Get(ctx context.Context, id core.ListingID) (core.Listing, error)
	Details(ctx context.Context, id core.ListingID) (listingdetails.ListingDetails, error)
	Total(ctx context.Context) (int, error)
	Listings(ctx context.Context) ([]core.Listing, error)
	DueDate(ctx context.Context, id core.ListingID) (time.Time, error)
	IsLate(ctx context.Context, id core.ListingID) (bool, int64, error)
	RentalsOf(ctx context.Context, principal core.PrincipalString) ([]core.ListingID, error)
	HasRented(ctx context.Context, principal core.PrincipalString, id core.ListingID) (bool, error)
	EscrowStatement(ctx context.Context) (escrowstatement.Statement, error)
	Events(ctx context.Context, after uint, limit int) (eventfeed.Feed, error)
	MaxRentalDays() int
}

var _ Ledger = (*ledger.Ledger)(nil)

// Server serves the ledger API.
type Server struct {
	echo      *echo.Echo
	ledger    Ledger
	logger    *slog.Logger
	jwtSecret []byte
	issuer    string

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithIssuer makes the server reject tokens with a different "iss" claim.
func WithIssuer(issuer string) Option {
	return func(s *Server) {
		s.issuer = issuer
	}
}

// WithLogger sets the access and error logger, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTimeouts sets the read and write timeouts of the http.Server used by Run.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// NewServer builds the echo instance with middlewares and routes.
func NewServer(l Ledger, jwtSecret []byte, opts ...Option) *Server {
	s := &Server{
		echo:      echo.New(),
		ledger:    l,
		logger:    slog.Default(),
		jwtSecret: jwtSecret,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.JSONSerializer = jsonSerializer{}
	s.echo.Validator = newRequestValidator()
	s.echo.HTTPErrorHandler = s.handleError

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is done, then shuts down gracefully within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.health)

	v1 := s.echo.Group("/v1")
	v1.GET("/listings", s.listListings)
	v1.GET("/listings/total", s.total)
	v1.GET("/listings/:id", s.getListing)
	v1.GET("/listings/:id/details", s.details)
	v1.GET("/listings/:id/due-date", s.dueDate)
	v1.GET("/listings/:id/late", s.isLate)
	v1.GET("/renters/:principal/rentals", s.rentalsOf)
	v1.GET("/renters/:principal/rentals/:id", s.hasRented)
	v1.GET("/escrow/statement", s.escrowStatement)
	v1.GET("/events", s.events)
	v1.GET("/rules/max-rental-days", s.maxRentalDays)

	authenticated := s.jwtMiddleware()
	v1.POST("/listings", s.listBook, authenticated)
	v1.POST("/listings/:id/rent", s.rentBook, authenticated)
	v1.POST("/listings/:id/return", s.returnBook, authenticated)
	v1.GET("/me/rentals", s.myRentals, authenticated)
}
