package memory_test

import (
	"testing"

	"github.com/aretw0/tally/internal/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.DatasetStoreContractTest(t, func(t *testing.T, seed domain.Dataset) ports.DatasetStore {
		return memory.New(seed)
	})
}
