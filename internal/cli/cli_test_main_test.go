package cli_test

import (
	"testing"

	"gitstack.dev/gitstack/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m, nil)
}
