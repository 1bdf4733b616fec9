package models

type ChallengeKind string

const (
	ChallengeKindCustom ChallengeKind = "CUSTOM_CHALLENGE"
)

const OTPChallengeMetadata = "OTP_CHALLENGE"

// ChallengeRecord is one round of challenge and response within a login attempt.
// Succeeded is nil until the answer has been verified.
type ChallengeRecord struct {
	Kind      ChallengeKind `json:"kind"`
	Succeeded *bool         `json:"succeeded,omitempty"`
	Metadata  string        `json:"metadata,omitempty"`
}

func NewChallengeRecord(kind ChallengeKind, succeeded bool) ChallengeRecord {
	return ChallengeRecord{Kind: kind, Succeeded: &succeeded, Metadata: OTPChallengeMetadata}
}

// PrivateParameters holds the secret half of a challenge. It is only ever
// handed to the identity directory and back to the verifier.
type PrivateParameters struct {
	Answer string `json:"answer"`
}

// Map renders the private parameters in the directory's wire form.
func (p PrivateParameters) Map() map[string]string {
	return map[string]string{"answer": p.Answer}
}

// PrivateParametersFromMap reads the wire form. "otp" is accepted for
// challenges minted by the legacy trigger.
func PrivateParametersFromMap(m map[string]string) PrivateParameters {
	if answer, ok := m["answer"]; ok {
		return PrivateParameters{Answer: answer}
	}
	return PrivateParameters{Answer: m["otp"]}
}

// String keeps the answer out of formatted log output.
func (p PrivateParameters) String() string {
	return "PrivateParameters{redacted}"
}

type Challenge struct {
	PublicParameters map[string]string
	Private          PrivateParameters
	Metadata         string
}

type Decision int

const (
	DecisionFailAuthentication Decision = iota
	DecisionIssueChallenge
	DecisionIssueTokens
)

func (d Decision) String() string {
	switch d {
	case DecisionIssueChallenge:
		return "issue_challenge"
	case DecisionIssueTokens:
		return "issue_tokens"
	default:
		return "fail_authentication"
	}
}

// SubjectProfile is what the directory knows about the subject of a login.
type SubjectProfile struct {
	Username    string
	PhoneNumber string
	Attributes  map[string]string
}
