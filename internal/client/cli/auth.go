package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/services"
	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for a username, email and password and creates an account.
// The server mails a verification code which is asked for right away; an
// empty answer postpones verification to the "verify" command.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.authService.Signup(ctx, models.Signup{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return a.fail(ctx, "signup", err)
	}
	a.printf("Account created. A verification code was sent to %s.\n", email)

	return a.verifyEmail(ctx, email)
}

// Verify confirms the email address of a new account.
func (a *App) Verify(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	return a.verifyEmail(ctx, email)
}

func (a *App) verifyEmail(ctx context.Context, email string) error {
	code, err := getSimpleText(a.reader, "Enter verification code (empty to resend)", a.out)
	if err != nil {
		return err
	}
	if code == "" {
		if err := a.authService.ResendVerification(ctx, email); err != nil {
			return a.fail(ctx, "resend verification", err)
		}
		a.printf("A new code is on its way. Use 'verify' once it arrives.\n")
		return nil
	}
	if err := a.authService.Verify(ctx, email, strings.ToUpper(code)); err != nil {
		return a.fail(ctx, "verify", err)
	}
	a.printf("Email verified, you can log in now.\n")
	return nil
}

// Login prompts for credentials and starts a session. Accounts with two
// factor authentication are asked for the mailed code.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	outcome, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrRejected) {
			a.printf("Login refused. Has the account been verified?\n")
		}
		return a.fail(ctx, "login", err)
	}

	if outcome == services.NeedsTwoFactor {
		code, err := getSimpleText(a.reader, "Enter the code sent to your email", a.out)
		if err != nil {
			return err
		}
		if err := a.authService.VerifyTwoFactor(ctx, email, strings.ToUpper(code)); err != nil {
			return a.fail(ctx, "two-factor verification", err)
		}
	}

	a.loggedIn = true
	a.email = email
	a.log.Info(ctx, "logged in", "email", email)
	a.refreshUser(ctx)
	a.printf("Welcome back%s!\n", greetName(a.userName))
	return nil
}

func greetName(name string) string {
	if name == "" {
		return ""
	}
	return ", " + name
}

// ResetPassword runs the forgot-password flow: a code is mailed, kept in
// the local store until used, and exchanged for a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		return a.fail(ctx, "forgot password", err)
	}
	a.printf("If the account exists, a reset code was sent to %s.\n", email)

	code, err := getSimpleText(a.reader, "Enter reset code", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.RememberResetCode(ctx, strings.ToUpper(code)); err != nil {
		return a.fail(ctx, "reset code", err)
	}

	password, err := getPassword("Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.ResetPassword(ctx, email, string(password)); err != nil {
		return a.fail(ctx, "reset password", err)
	}
	a.printf("Password changed, you can log in now.\n")
	return nil
}

// Logout drops the session and every cached response.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return a.fail(ctx, "logout", err)
	}
	a.loggedIn = false
	a.userName = ""
	a.email = ""
	a.printf("Logged out.\n")
	return nil
}
