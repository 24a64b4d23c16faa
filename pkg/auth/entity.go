package auth

// Kind classifies a failed auth operation. All kinds are
// recoverable, a new attempt is always a new explicit call.
type Kind int

const (
	// Network means transport failure or a malformed body, there
	// was no interpretable response.
	Network Kind = iota
	// InvalidCredentials means the backend rejected the login.
	InvalidCredentials
	// Validation means the backend rejected the signup input.
	Validation
	// Unknown is any other domain-level error.
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case InvalidCredentials:
		return "invalid credentials"
	case Validation:
		return "validation"
	case Unknown:
		return "unknown"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return "auth: " + e.Kind.String() + ": " + e.Message
}

type LoginResult struct {
	Token  string
	UserID string
}

type CreateUserResult struct {
	ID    string
	Email string
	Name  string
}
