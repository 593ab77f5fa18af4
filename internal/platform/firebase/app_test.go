package firebase

import (
	"testing"
)

func TestClientsCloseWithNilFirestore(t *testing.T) {
	c := &Clients{}

	if err := c.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
