package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/client/auth"
)

const (
	NoEmail    = "No email provided"
	DateLayout = "Jan 2, 2006"
)

// Profile is everything the profile card shows.
type Profile struct {
	Identity  auth.Identity
	Used      int
	Remaining int
}

// MemberSince formats t for the card, or "" for the zero time.
func MemberSince(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func RenderProfile(w io.Writer, st Style, p Profile) error {
	id := p.Identity
	email := id.Email
	if email == "" {
		email = NoEmail
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", st.paint(bgGreen+bold, " "+id.Initials()+" "), st.paint(bold, id.DisplayName()))
	fmt.Fprintf(&b, "    %s\n", email)
	if id.IsGoogle() {
		fmt.Fprintf(&b, "    %s\n", st.paint(fgBlue, "Signed in with Google"))
	}
	if since := MemberSince(id.IssuedAt); since != "" {
		fmt.Fprintf(&b, "    Member since %s\n", since)
	}
	fmt.Fprintf(&b, "    Analyses: %d used, %d remaining\n", p.Used, p.Remaining)

	_, err := io.WriteString(w, b.String())
	return err
}
