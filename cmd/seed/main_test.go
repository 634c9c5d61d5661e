package main

import (
	"testing"

	"github.com/pvyield/pvyield/pkg/storage"
	"github.com/pvyield/pvyield/pkg/storage/storagemock"
	"github.com/stretchr/testify/assert"
)

func TestCheckStore(t *testing.T) {
	assert.ErrorContains(t, checkStore(storage.NewMemory()), "does not persist")
	assert.NoError(t, checkStore(&storagemock.MockDatabase{}))
}
