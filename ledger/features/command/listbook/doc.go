// Package listbook implements the List Book use case: an owner offers a book for rent
// with a daily price, a daily late fee and a deposit.
//
// Listing ids are sequential. The decision reads every BookListed event and appends under
// that stream, so two concurrent listings can never get the same id.
package listbook
