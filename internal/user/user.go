// Package user holds the plain user record and free functions over it.
// There is deliberately no behavior on the types themselves.
package user

import "strings"

// Address is one saved shipping address.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	ZipCode       string `json:"zipCode"`
	Default       bool   `json:"default"`
}

// User is an immutable data record; construct a new value to change it.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Addresses []Address `json:"addresses,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func FullName(u User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PrimaryAddress returns the default address, falling back to the first
// saved one. The second return is false when no address exists.
func PrimaryAddress(u User) (Address, bool) {
	for _, a := range u.Addresses {
		if a.Default {
			return a, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return Address{}, false
}
