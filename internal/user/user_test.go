package user

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		u    User
		want string
	}{
		{name: "both parts", u: User{FirstName: "Ada", LastName: "Lovelace"}, want: "Ada Lovelace"},
		{name: "first only", u: User{FirstName: "Ada"}, want: "Ada"},
		{name: "last only", u: User{LastName: "Lovelace"}, want: "Lovelace"},
		{name: "neither", u: User{}, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FullName(tc.u); got != tc.want {
				t.Errorf("FullName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrimaryAddress(t *testing.T) {
	home := Address{StreetAddress: "1 Main St", City: "Springfield", Default: true}
	office := Address{StreetAddress: "9 Work Rd", City: "Springfield"}

	u := User{Addresses: []Address{office, home}}
	got, ok := PrimaryAddress(u)
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if diff := cmp.Diff(home, got); diff != "" {
		t.Errorf("primary address mismatch (-want +got):\n%s", diff)
	}

	// No default flag: first address wins.
	u = User{Addresses: []Address{office}}
	got, ok = PrimaryAddress(u)
	if !ok || got.StreetAddress != "9 Work Rd" {
		t.Errorf("got %+v ok=%v, want office address", got, ok)
	}

	// No addresses at all.
	if _, ok := PrimaryAddress(User{}); ok {
		t.Error("ok = true for user without addresses")
	}
}
