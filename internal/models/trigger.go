package models

// Trigger events exchanged with the identity directory. They mirror the
// request/response envelope of a custom authentication flow: the directory
// fills in request, the service fills in response and echoes the event back.

type SessionEntry struct {
	ChallengeName     ChallengeKind `json:"challengeName"`
	ChallengeResult   *bool         `json:"challengeResult,omitempty"`
	ChallengeMetadata string        `json:"challengeMetadata,omitempty"`
}

type TriggerCaller struct {
	UserPoolID string `json:"userPoolId,omitempty"`
	UserName   string `json:"userName,omitempty"`
}

type DefineAuthChallengeRequest struct {
	UserAttributes map[string]string `json:"userAttributes,omitempty"`
	Session        []SessionEntry    `json:"session"`
}

type DefineAuthChallengeResponse struct {
	ChallengeName      ChallengeKind `json:"challengeName,omitempty"`
	IssueTokens        bool          `json:"issueTokens"`
	FailAuthentication bool          `json:"failAuthentication"`
}

type DefineAuthChallengeEvent struct {
	TriggerCaller
	Request  DefineAuthChallengeRequest  `json:"request"`
	Response DefineAuthChallengeResponse `json:"response"`
}

type CreateAuthChallengeRequest struct {
	UserAttributes map[string]string `json:"userAttributes"`
	ChallengeName  ChallengeKind     `json:"challengeName"`
	Session        []SessionEntry    `json:"session,omitempty"`
}

type CreateAuthChallengeResponse struct {
	PublicChallengeParameters  map[string]string `json:"publicChallengeParameters"`
	PrivateChallengeParameters map[string]string `json:"privateChallengeParameters"`
	ChallengeMetadata          string            `json:"challengeMetadata"`
}

type CreateAuthChallengeEvent struct {
	TriggerCaller
	Request  CreateAuthChallengeRequest  `json:"request"`
	Response CreateAuthChallengeResponse `json:"response"`
}

type VerifyAuthChallengeRequest struct {
	UserAttributes             map[string]string `json:"userAttributes,omitempty"`
	PrivateChallengeParameters map[string]string `json:"privateChallengeParameters"`
	ChallengeAnswer            string            `json:"challengeAnswer"`
}

type VerifyAuthChallengeResponse struct {
	AnswerCorrect bool `json:"answerCorrect"`
}

type VerifyAuthChallengeEvent struct {
	TriggerCaller
	Request  VerifyAuthChallengeRequest  `json:"request"`
	Response VerifyAuthChallengeResponse `json:"response"`
}

// History converts directory session entries into challenge records.
func History(entries []SessionEntry) []ChallengeRecord {
	records := make([]ChallengeRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, ChallengeRecord{
			Kind:      e.ChallengeName,
			Succeeded: e.ChallengeResult,
			Metadata:  e.ChallengeMetadata,
		})
	}
	return records
}
