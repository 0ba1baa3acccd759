package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/resumematch/internal/client/auth"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	action  auth.Action
	loginOK bool
	calls   []string
}

func (f *fakeExec) rec(s string) error { f.calls = append(f.calls, s); return nil }

func (f *fakeExec) Guard(string) auth.Decision     { return auth.Decision{Action: f.action} }
func (f *fakeExec) Register(context.Context) error { return f.rec("register") }
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	if f.loginOK {
		f.action = auth.ActionAllow
		return nil
	}
	return fmt.Errorf("login failed")
}
func (f *fakeExec) OAuth(_ context.Context, token string) error {
	return f.rec("oauth:" + token)
}
func (f *fakeExec) Relogin(context.Context) error      { return f.rec("relogin") }
func (f *fakeExec) Logout(context.Context) error       { return f.rec("logout") }
func (f *fakeExec) Whoami(context.Context) error       { return f.rec("whoami") }
func (f *fakeExec) Profile(context.Context) error      { return f.rec("profile") }
func (f *fakeExec) RemoveResume(context.Context) error { return f.rec("remove") }
func (f *fakeExec) Analyze(context.Context) error      { return f.rec("analyze") }
func (f *fakeExec) Result(context.Context) error       { return f.rec("result") }
func (f *fakeExec) Upload(_ context.Context, p string) error {
	return f.rec("upload:" + p)
}
func (f *fakeExec) JobDescription(_ context.Context, t string) error {
	return f.rec("jd:" + t)
}
func (f *fakeExec) Toggle(_ context.Context, s string) error {
	return f.rec("toggle:" + s)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func run(t *testing.T, f *fakeExec, input string) []string {
	t.Helper()
	out := captureOutput(t)
	runREPL(context.Background(), f, func() string { return "test" }, bufio.NewReader(strings.NewReader(input)))
	return *out
}

func TestREPL_DispatchesAuthenticatedCommands(t *testing.T) {
	f := &fakeExec{action: auth.ActionAllow}
	out := run(t, f, "upload /tmp/cv.pdf\njd Senior Go engineer\nanalyze\ntoggle strengths\nresult\nprofile\nremove\nwhoami\nlogout\nexit\n")

	assert.Equal(t, []string{
		"upload:/tmp/cv.pdf", "jd:Senior Go engineer", "analyze", "toggle:strengths",
		"result", "profile", "remove", "whoami", "logout",
	}, f.calls)
	assert.Equal(t, "Bye!", out[len(out)-1])
}

func TestREPL_ProtectedCommandRedirectsToLogin(t *testing.T) {
	f := &fakeExec{action: auth.ActionRedirect, loginOK: true}
	out := run(t, f, "analyze\n")

	assert.Equal(t, []string{"login", "analyze"}, f.calls)
	assert.Contains(t, out, "Please log in first")
}

func TestREPL_FailedLoginDropsCommand(t *testing.T) {
	f := &fakeExec{action: auth.ActionRedirect}
	run(t, f, "upload cv.pdf\n")

	assert.Equal(t, []string{"login"}, f.calls)
}

func TestREPL_WaitWhileLoading(t *testing.T) {
	f := &fakeExec{action: auth.ActionWait}
	out := run(t, f, "analyze\n")

	assert.Empty(t, f.calls)
	assert.Contains(t, out, "Loading...")
}

func TestREPL_PublicCommandsSkipGuard(t *testing.T) {
	f := &fakeExec{action: auth.ActionRedirect}
	run(t, f, "register\noauth\noauth tok123\nrelogin\n")

	assert.Equal(t, []string{"register", "oauth:", "oauth:tok123", "relogin"}, f.calls)
}

func TestREPL_HelpDependsOnSession(t *testing.T) {
	out := run(t, &fakeExec{action: auth.ActionRedirect}, "help\n")
	assert.Contains(t, out, helpAnonymous)

	out = run(t, &fakeExec{action: auth.ActionAllow}, "help\n")
	assert.Contains(t, out, helpAuthenticated)
}

func TestREPL_UnknownAndBlankLines(t *testing.T) {
	out := run(t, &fakeExec{}, "\n   \nfrobnicate\n")
	assert.Contains(t, out, "Unknown command: frobnicate")
}

func TestREPL_LastLineWithoutNewline(t *testing.T) {
	f := &fakeExec{action: auth.ActionAllow}
	run(t, f, "result")
	assert.Equal(t, []string{"result"}, f.calls)
}

func TestREPL_StopsOnCancelledContext(t *testing.T) {
	f := &fakeExec{action: auth.ActionAllow}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	captureOutput(t)
	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("result\n")))
	assert.Empty(t, f.calls)
}
