package cli

import (
	"context"
	"log"

	"github.com/mbelkin/geoauth/internal/apperr"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		if apperr.IsValidationError(err) {
			log.Printf("Check your input: %s", apperr.UserMessage(err))
		} else {
			log.Printf("Login failed: %s", apperr.UserMessage(err))
		}
		return
	}

	a.session.Login(ctx, resp.Token)

	if st := a.state(); st.IsAuthenticated {
		log.Printf("Logged in as %s", st.User.Email)
	} else if st.Err != nil {
		log.Printf("Login failed: %s", st.Err.Message)
	}
}

func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	resp, err := a.api.Register(ctx, email, password)
	if err != nil {
		log.Printf("Registration failed: %s", apperr.UserMessage(err))
		return
	}

	// A fresh registration behaves like a login: persist the token and
	// bootstrap the session from it.
	a.session.Login(ctx, resp.Token)

	if st := a.state(); st.IsAuthenticated {
		log.Printf("Registered and logged in as %s", st.User.Email)
	}
}

func (a *App) Logout(ctx context.Context) {
	a.session.Logout()
	log.Printf("Logged out")
}

func (a *App) Whoami(ctx context.Context) {
	st := a.state()
	if st.User == nil {
		log.Printf("Not logged in")
		return
	}
	log.Printf("%s (id %s)", st.User.Email, st.User.ID)
}
