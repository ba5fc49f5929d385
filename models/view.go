package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// unlimitedViews is the wire form of ViewsRemaining for elevated requesters.
const unlimitedViews = "unlimited"

// ViewsRemaining is the number of grants a requester may still obtain for a
// document. Elevated requesters are unlimited; on the wire this is the
// string "unlimited", otherwise a number.
type ViewsRemaining struct {
	Unlimited bool
	Count     int
}

// Unlimited returns the value used for elevated requesters.
func Unlimited() ViewsRemaining {
	return ViewsRemaining{Unlimited: true}
}

// Remaining returns a limited value; negative counts are clamped to zero.
func Remaining(n int) ViewsRemaining {
	return ViewsRemaining{Count: max(n, 0)}
}

func (v ViewsRemaining) String() string {
	if v.Unlimited {
		return unlimitedViews
	}
	return strconv.Itoa(v.Count)
}

func (v ViewsRemaining) MarshalJSON() ([]byte, error) {
	if v.Unlimited {
		return json.Marshal(unlimitedViews)
	}
	return json.Marshal(v.Count)
}

func (v *ViewsRemaining) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unlimitedViews {
			return fmt.Errorf("unexpected views remaining value %q", s)
		}
		*v = Unlimited()
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("views remaining must be a number or %q: %w", unlimitedViews, err)
	}
	*v = Remaining(n)
	return nil
}

// ViewGrant is the result of a successful view request.
type ViewGrant struct {
	Token          string         `json:"viewToken"`
	ExpiresIn      int            `json:"expiresIn"`
	ViewsRemaining ViewsRemaining `json:"viewsRemaining"`
}

// DocumentView is a document with its number decrypted, returned only by
// the view resolution path.
type DocumentView struct {
	ID                 int64          `json:"id"`
	DocumentType       string         `json:"document_type"`
	DocumentNumber     string         `json:"document_number"`
	Name               string         `json:"name"`
	DateOfBirth        string         `json:"date_of_birth"`
	Gender             string         `json:"gender"`
	VerificationStatus DocumentStatus `json:"verification_status"`
	ViewCount          int            `json:"view_count"`
	ViewsRemaining     ViewsRemaining `json:"viewsRemaining"`
}
