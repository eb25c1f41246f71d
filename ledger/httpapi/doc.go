// Package httpapi exposes the rental ledger over HTTP with echo.
//
// Reads are public. Listing, renting and returning need a Bearer token signed with HS256 whose
// "sub" claim is the calling principal. Ledger errors are answered as {"code", "message"} with
// a status derived from their category, see StatusOf.
package httpapi
