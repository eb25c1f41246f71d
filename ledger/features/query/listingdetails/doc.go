// Package listingdetails implements the Listing Details query: the full record of one listing
// plus its due date and lateness evaluated at the query time.
//
// Querying an id that was never listed returns core.ErrNotFound.
package listingdetails
