package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/services"
)

type fakeStaff struct {
	created   []services.NewStaffInput
	passwords map[string]string
	err       error
}

func (f *fakeStaff) CreateStaff(_ context.Context, in services.NewStaffInput) (*models.StaffAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &models.StaffAccount{ID: int64(len(f.created)), Username: in.Username, Role: in.Role}, nil
}

func (f *fakeStaff) SetStaffPassword(_ context.Context, login, password string) error {
	if f.err != nil {
		return f.err
	}
	if f.passwords == nil {
		f.passwords = map[string]string{}
	}
	f.passwords[login] = password
	return nil
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func setup(t *testing.T, password string) (*commandLine, *fakeStaff, *int) {
	t.Helper()
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	readPasswordFunc = func(int) ([]byte, error) { return []byte(password), nil }

	staff := &fakeStaff{}
	migrations := 0
	cli := &commandLine{
		staff: staff,
		migrate: func(context.Context) error {
			migrations++
			return nil
		},
		out: &bytes.Buffer{},
	}
	return cli, staff, &migrations
}

func runTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(context.Background(), append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, _ := setup(t, "secret")
	runTests(t, cli, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	})
	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "createstaff")
}

func Test_commandLine_createstaff(t *testing.T) {
	cli, staff, _ := setup(t, "Str0ngPass!")

	runTests(t, cli, []cliTest{
		{name: "no flags", args: []string{"createstaff"}, wantErr: errHelp},
		{name: "student role", args: []string{"createstaff", "-role", "student", "-username", "s", "-email", "s@x.test"}, wantErr: errHelp},
		{name: "unknown role", args: []string{"createstaff", "-role", "dean", "-username", "d", "-email", "d@x.test"}, wantErr: errHelp},
		{name: "missing email", args: []string{"createstaff", "-role", "admin", "-username", "root"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"createstaff", "-nope"}, wantErr: errHelp},
		{
			name: "hod",
			args: []string{"createstaff", "-role", "hod", "-username", "hod_cse", "-email", "hod@x.test",
				"-name", "Dr. Rao", "-program", "BTECH", "-branch", "CSE", "-designation", "Professor"},
		},
	})

	require.Len(t, staff.created, 1)
	in := staff.created[0]
	assert.Equal(t, models.RoleHOD, in.Role)
	assert.Equal(t, "hod_cse", in.Username)
	assert.Equal(t, "BTECH", in.Program)
	assert.Equal(t, "CSE", in.Branch)
	assert.Equal(t, "Professor", in.Designation)
	assert.Equal(t, "Str0ngPass!", in.Password)
}

func Test_commandLine_createstaff_serviceError(t *testing.T) {
	cli, staff, _ := setup(t, "Str0ngPass!")
	staff.err = errors.New("username already taken")

	runTests(t, cli, []cliTest{
		{name: "duplicate", args: []string{"createstaff", "-role", "admin", "-username", "root", "-email", "r@x.test"}, wantErrStr: "username already taken"},
	})
}

func Test_commandLine_resetpassword(t *testing.T) {
	cli, staff, _ := setup(t, "N3wPass!")

	runTests(t, cli, []cliTest{
		{name: "no login", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "ok", args: []string{"resetpassword", "-login", "hod_cse"}},
	})
	assert.Equal(t, "N3wPass!", staff.passwords["hod_cse"])
}

func Test_commandLine_emptyPassword(t *testing.T) {
	cli, staff, _ := setup(t, "")

	runTests(t, cli, []cliTest{
		{name: "empty", args: []string{"resetpassword", "-login", "hod_cse"}, wantErrStr: "password must not be empty"},
	})
	assert.Empty(t, staff.passwords)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, migrations := setup(t, "")

	runTests(t, cli, []cliTest{{name: "migrate", args: []string{"migrate"}}})
	assert.Equal(t, 1, *migrations)
}
