package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/residentportal/internal/client/gate"
	"github.com/dmitrijs2005/residentportal/internal/client/services"
	"github.com/dmitrijs2005/residentportal/internal/common"
)

func (a *App) Help() string {
	id, _ := a.resolver.Identity(context.Background())
	if id.Authenticated {
		return "Available commands: whoami, open <route>, passwd, apartments, ping, logout, exit"
	}
	if a.flow.Snapshot().Mode == services.ModePassword {
		return "Available commands: login, mode otp, open <route>, ping, exit"
	}
	return "Available commands: apartments, apartment <flat>, send, otp <code>, reset, mode password, open <route>, ping, exit"
}

func (a *App) SetMode(_ context.Context, mode string) error {
	m, ok := services.ParseMode(mode)
	if !ok {
		a.console.Error("Unknown login mode " + mode)
		return fmt.Errorf("unknown login mode %q", mode)
	}
	return a.flow.SwitchMode(m)
}

func (a *App) ListApartments(ctx context.Context) error {
	list, err := a.account.Apartments(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No apartments")
	}
	for _, apt := range list {
		fmt.Fprintf(a.out, "  %s\n", apt.FlatNumber)
	}
	return nil
}

func (a *App) CheckApartment(ctx context.Context, flat string) error {
	if err := a.flow.SelectApartment(flat); err != nil {
		return err
	}
	return a.flow.CheckApartment(ctx)
}

func (a *App) SendOTP(ctx context.Context) error {
	return a.flow.SendOTP(ctx)
}

func (a *App) VerifyOTP(ctx context.Context, code string) error {
	if got := a.flow.SetOTP(code); got != code {
		fmt.Fprintf(a.out, "OTP entered as %q\n", got)
	}
	return a.flow.VerifyOTP(ctx)
}

func (a *App) PasswordLogin(ctx context.Context) error {
	if a.flow.Snapshot().Mode != services.ModePassword {
		a.console.Error("Switch to password login first: mode password")
		return services.ErrWrongMode
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

	if err := a.flow.SetPasswordCredentials(email, string(password)); err != nil {
		return err
	}
	return a.flow.PasswordLogin(ctx)
}

func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.resolver.Identity(ctx)
	if err != nil {
		a.console.Error("Session could not be read")
		return err
	}
	if !id.Authenticated {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	caps := id.Capabilities()
	fmt.Fprintf(a.out, "Signed in as %s <%s>, role %s (admin: %t, user: %t)\n",
		id.Name, id.Email, id.Role, caps.IsAdmin, caps.IsUser)
	return nil
}

// Open runs the route gate and lands wherever it decides.
func (a *App) Open(ctx context.Context, route string) error {
	d := a.gate.Decide(ctx, route)
	switch d.Outcome {
	case gate.RedirectLogin:
		a.console.Error("Please sign in to open " + gate.Clean(route))
	case gate.RedirectUnauthorized:
		a.console.Error("You are not allowed to open " + gate.Clean(route))
	}
	a.console.Navigate(d.Route)
	return nil
}

func (a *App) Reset(_ context.Context) error {
	a.flow.Reset()
	fmt.Fprintln(a.out, "Form cleared")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email (empty for your own account)", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	return a.account.ChangePassword(ctx, email, string(pw), string(confirm))
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.account.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is reachable")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.account.Logout(ctx)
}
