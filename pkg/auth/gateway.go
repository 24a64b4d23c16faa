package auth

import (
	"context"
	"encoding/json"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/feed-client/pkg/logger"
)

// The backend speaks GraphQL over plain JSON POSTs to a single
// endpoint. Login is a root query, createUser is a mutation.
const loginQuery = `
	query Login($email: String!, $password: String!) {
		login(email: $email, password: $password) {
			userId
			token
		}
	}`

const createUserQuery = `
	mutation CreateUser($email: String!, $password: String!, $name: String!) {
		createUser(userInput: {email: $email, password: $password, name: $name}) {
			_id
			email
			name
		}
	}`

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type respError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    []struct {
		Message string `json:"message"`
	} `json:"data"`
}

// The server puts the detailed message into errors[0].data when
// there is one, otherwise errors[0].message is all we get.
func (e respError) text() string {
	if len(e.Data) > 0 && e.Data[0].Message != "" {
		return e.Data[0].Message
	}
	return e.Message
}

type Gateway struct {
	client *resty.Client
}

func NewGateway(endpoint string) (*Gateway, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := resty.New().
		SetBaseURL(endpoint).
		SetCookieJar(jar).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Gateway{client: c}, nil
}

// Login exchanges credentials for a token. A non-nil error is
// always *Error with one of the enumerated kinds.
func (g *Gateway) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := graphqlRequest{
		Query:     loginQuery,
		Variables: map[string]interface{}{"email": email, "password": password},
	}

	resp, err := g.client.R().SetContext(ctx).SetBody(body).Post("")
	if err != nil {
		logger.Log(ctx).Errorf("auth: failed sending login request, %v", err)
		return nil, &Error{Kind: Network, Message: "could not reach the backend"}
	}

	parsed := struct {
		Errors []respError `json:"errors"`
		Data   struct {
			Login struct {
				UserID string `json:"userId"`
				Token  string `json:"token"`
			} `json:"login"`
		} `json:"data"`
	}{}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		logger.Log(ctx).Errorf("auth: failed parsing login response, %v", err)
		return nil, &Error{Kind: Network, Message: "malformed response from the backend"}
	}

	if len(parsed.Errors) > 0 {
		first := parsed.Errors[0]
		if first.Status == 401 {
			return nil, &Error{Kind: InvalidCredentials, Message: first.text()}
		}
		return nil, &Error{Kind: Unknown, Message: first.text()}
	}

	return &LoginResult{
		Token:  parsed.Data.Login.Token,
		UserID: parsed.Data.Login.UserID,
	}, nil
}

// CreateUser registers a new account. It does not log the user in,
// the backend returns no token here.
func (g *Gateway) CreateUser(ctx context.Context, email, password, name string) (*CreateUserResult, error) {
	body := graphqlRequest{
		Query: createUserQuery,
		Variables: map[string]interface{}{
			"email":    email,
			"password": password,
			"name":     name,
		},
	}

	resp, err := g.client.R().SetContext(ctx).SetBody(body).Post("")
	if err != nil {
		logger.Log(ctx).Errorf("auth: failed sending createUser request, %v", err)
		return nil, &Error{Kind: Network, Message: "could not reach the backend"}
	}

	parsed := struct {
		Errors []respError `json:"errors"`
		Data   struct {
			CreateUser struct {
				ID    string `json:"_id"`
				Email string `json:"email"`
				Name  string `json:"name"`
			} `json:"createUser"`
		} `json:"data"`
	}{}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		logger.Log(ctx).Errorf("auth: failed parsing createUser response, %v", err)
		return nil, &Error{Kind: Network, Message: "malformed response from the backend"}
	}

	if len(parsed.Errors) > 0 {
		first := parsed.Errors[0]
		if first.Status == 422 {
			return nil, &Error{Kind: Validation, Message: first.text()}
		}
		return nil, &Error{Kind: Unknown, Message: first.text()}
	}

	return &CreateUserResult{
		ID:    parsed.Data.CreateUser.ID,
		Email: parsed.Data.CreateUser.Email,
		Name:  parsed.Data.CreateUser.Name,
	}, nil
}
