package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

const (
	AuthorityAll   = "ALL"
	AuthoritySDM   = "SDM"
	AuthorityHukum = "HUKUM"
	AuthorityAdmin = "ADMIN"
)

const (
	DefaultSessionTitle = "New Chat"
	DefaultAuthority    = AuthoritySDM
	DefaultCategory     = "general"
)

// MaxMessageLength caps chat prompt/content size before anything is persisted
// or forwarded upstream.
const MaxMessageLength = 5000

// SessionTitleLimit is the rune budget for titles derived from the first
// user message of a session.
const SessionTitleLimit = 50

// ExternalPathSentinel is stored as the path of uploaded files that were
// forwarded to the external store instead of being kept locally.
const ExternalPathSentinel = "external-api"

func ValidAuthority(a string) bool {
	switch a {
	case AuthorityAll, AuthoritySDM, AuthorityHukum, AuthorityAdmin:
		return true
	}
	return false
}
