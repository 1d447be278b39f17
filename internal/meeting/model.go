package meeting

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Status represents the lifecycle of a meeting.
type Status string

const (
	StatusRecording  Status = "recording"
	StatusProcessing Status = "processing"
	StatusReview     Status = "review"
	StatusSent       Status = "sent"
)

var allStatuses = []Status{
	StatusRecording,
	StatusProcessing,
	StatusReview,
	StatusSent,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// SignatureStatus is derived from the two signer slots. It is empty while
// neither slot is populated, pending while exactly one is, and signed once
// both are.
type SignatureStatus string

const (
	SignaturePending SignatureStatus = "pending"
	SignatureSigned  SignatureStatus = "signed"
)

// Role identifies one of the two fixed signer slots.
type Role string

const (
	RolePresident Role = "president"
	RoleSecretary Role = "secretary"
)

// ParseRole converts a string into a known Role.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RolePresident:
		return RolePresident, true
	case RoleSecretary:
		return RoleSecretary, true
	default:
		return "", false
	}
}

// Segment is one timestamped chunk of transcribed speech. Order within a
// transcript is chronological and meaningful.
type Segment struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker,omitempty"`
	Text      string `json:"text"`
}

// Recipient is one acta delivery target. Entries are unique by ID; duplicate
// email addresses are not deduplicated.
type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Signature captures one in-product signer slot.
type Signature struct {
	Name     string    `json:"name"`
	Image    string    `json:"image"`
	SignedAt time.Time `json:"signedAt"`
}

// Meeting is the central entity: one recorded session of a residential
// community board, with its transcript, drafted acta, signatures, and
// delivery state.
type Meeting struct {
	ID              string
	OwnerID         string
	BuildingName    string
	AttendeesCount  int
	Date            time.Time
	DurationSeconds int
	Status          Status
	AudioPath       string
	Transcript      []Segment
	ActaContent     string
	Recipients      []Recipient
	President       *Signature
	Secretary       *Signature
	SignatureStatus SignatureStatus
	SignedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasTranscript reports whether transcription has committed at least one segment.
func (m *Meeting) HasTranscript() bool {
	return m != nil && len(m.Transcript) > 0
}

// SignatureFor returns the slot for a role, or nil when unsigned.
func (m *Meeting) SignatureFor(role Role) *Signature {
	if m == nil {
		return nil
	}
	switch role {
	case RolePresident:
		return m.President
	case RoleSecretary:
		return m.Secretary
	default:
		return nil
	}
}

// DeriveSignatureStatus computes the combined signature status from the two
// slots. It is the only place the derived value comes from.
func DeriveSignatureStatus(president, secretary *Signature) SignatureStatus {
	switch {
	case president != nil && secretary != nil:
		return SignatureSigned
	case president != nil || secretary != nil:
		return SignaturePending
	default:
		return ""
	}
}

// FormatOffset renders a segment start offset in seconds as an mm:ss label.
// Offsets of an hour or more keep accumulating minutes (90:05 rather than
// rolling over).
func FormatOffset(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ValidateRecipient checks a single recipient for shape: non-empty id and
// name, RFC-shaped email address.
func ValidateRecipient(r Recipient) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("recipient id required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipient %s: name required", r.ID)
	}
	addr := strings.TrimSpace(r.Email)
	if addr == "" {
		return fmt.Errorf("recipient %s: email required", r.ID)
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return fmt.Errorf("recipient %s: malformed email %q", r.ID, r.Email)
	}
	return nil
}

// ValidateRecipients checks a delivery list: at least one entry, every entry
// well formed. It returns every problem found so callers can name the
// specific malformed entries.
func ValidateRecipients(recipients []Recipient) []error {
	if len(recipients) == 0 {
		return []error{fmt.Errorf("at least one recipient required")}
	}
	var problems []error
	for _, r := range recipients {
		if err := ValidateRecipient(r); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}
