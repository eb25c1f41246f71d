// Package listings implements the Listings query: every listing ever created, in id order,
// and the total count. Ids are dense, so Total is also the highest id.
package listings
