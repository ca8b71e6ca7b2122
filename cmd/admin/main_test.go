package main

import (
	"testing"
)

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"migrate"}, {"user", "create"}} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not registered: %v", path, err)
		}
	}
}

func TestCreateUserCmd_Defaults(t *testing.T) {
	cmd := createUserCmd()
	if got := cmd.Flags().Lookup("role").DefValue; got != "Admin" {
		t.Errorf("default role: got %q, want Admin", got)
	}
}
