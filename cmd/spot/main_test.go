package main

import (
	"context"
	"errors"
	"os"
	"testing"
)

func stubExecute(t *testing.T, exec func(context.Context, []string) error, mapCode func(error) int) {
	t.Helper()
	origExec, origMap := executeCmd, mapExitCode
	t.Cleanup(func() {
		executeCmd = origExec
		mapExitCode = origMap
	})
	executeCmd = exec
	mapExitCode = mapCode
}

func TestRun_Success(t *testing.T) {
	var gotArgs []string
	stubExecute(t,
		func(ctx context.Context, args []string) error {
			if ctx.Err() != nil {
				t.Fatal("context should be live")
			}
			gotArgs = append([]string(nil), args...)
			return nil
		},
		func(_ error) int {
			t.Fatal("mapExitCode should not be called on success")
			return 99
		})

	if code := run([]string{"version", "--output", "json"}); code != 0 {
		t.Fatalf("run() code = %d, want 0", code)
	}
	if len(gotArgs) != 3 || gotArgs[0] != "version" {
		t.Fatalf("unexpected args %q", gotArgs)
	}
}

func TestRun_ErrorUsesMappedExitCode(t *testing.T) {
	executeErr := errors.New("boom")
	stubExecute(t,
		func(context.Context, []string) error { return executeErr },
		func(err error) int {
			if !errors.Is(err, executeErr) {
				t.Fatalf("mapExitCode got err %v, want %v", err, executeErr)
			}
			return 3
		})

	if code := run([]string{"profile"}); code != 3 {
		t.Fatalf("run() code = %d, want 3", code)
	}
}

func TestMain_UsesTerminateWithRunCode(t *testing.T) {
	stubExecute(t,
		func(context.Context, []string) error { return errors.New("boom") },
		func(error) int { return 13 })

	origTerminate, origArgs := terminate, os.Args
	t.Cleanup(func() {
		terminate = origTerminate
		os.Args = origArgs
	})

	gotCode := -1
	terminate = func(code int) { gotCode = code }
	os.Args = []string{"spot", "ping"}
	main()

	if gotCode != 13 {
		t.Fatalf("terminate code = %d, want 13", gotCode)
	}
}
