package client

import (
	"fmt"
	"io"
	"time"
)

// Render writes the list view and the form for s.
// A failed fetch renders only "Error: {message}".
func Render(w io.Writer, s State) {
	if s.FetchErr != nil {
		fmt.Fprintf(w, "Error: %s\n", s.FetchErr.Error())
		return
	}

	if s.Editing() {
		fmt.Fprintln(w, "== Edit user ==")
	} else {
		fmt.Fprintln(w, "== Create user ==")
	}
	fmt.Fprintf(w, "  name:  %s\n  email: %s\n  age:   %s\n", s.Name, s.Email, s.Age)

	fmt.Fprintln(w, "== Users ==")
	if len(s.Users) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, u := range s.Users {
		fmt.Fprintf(w, "  %d. %s (%s)", i+1, u.Name, u.Email)
		if u.Age != nil {
			fmt.Fprintf(w, " age %d", *u.Age)
		}
		if t, ok := u.Created(); ok {
			fmt.Fprintf(w, " created %s", t.UTC().Format(time.DateTime))
		}
		fmt.Fprintln(w)
	}
}
