package cli

import (
	"context"
	"os"
)

func (a *App) promptCredentials() (string, string, error) {
	email, err := GetSimpleText(a.reader, "Enter email:", os.Stdout)
	if err != nil {
		return "", "", err
	}
	pw, err := GetPassword(os.Stdout)
	if err != nil {
		return "", "", err
	}
	return email, string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter name:", os.Stdout)
	if err != nil {
		return err
	}
	surname, err := GetSimpleText(a.reader, "Enter surname:", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.client.Register(ctx, email, password, name, surname)
	if err != nil {
		printlnFn("Registration failed:", err)
		return err
	}
	printlnFn("Registered:", user.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, email, password); err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	a.email = email
	printlnFn("Logged in as", email)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Email:", user.Email)
	if user.Name != "" || user.Surname != "" {
		printlnFn("Name:", user.Name, user.Surname)
	}
	if user.LastLoginDate != nil {
		printlnFn("Last login:", user.LastLoginDate.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	confirm, err := GetSimpleText(a.reader, "Type 'yes' to delete your account and every stored password:", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.client.DeleteAccount(ctx); err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.email = ""
	printlnFn("Account deleted")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.email = ""
	printlnFn("Logged out")
	return nil
}
