// Package cli is the terminal front-end of the resident portal client.
//
// The terminal stands in for a browser tab: it holds one session, shows
// notifications inline and tracks the current route in the prompt.
//
// Commands
//
//	help                  list commands
//	mode otp|password     switch login mode (clears the form)
//	apartments            list known apartments
//	apartment <flat>      select an apartment and look up its email
//	send                  send (or resend) the OTP
//	otp <code>            enter and verify the OTP
//	login                 password login (prompts for email and password)
//	whoami                show the signed-in user and capabilities
//	open <route>          navigate, subject to the route gate
//	reset                 clear the login form
//	passwd                change a password
//	ping                  check the backend
//	logout                sign out
//	exit | quit           leave
package cli
