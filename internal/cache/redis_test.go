package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"washbooking/internal/domain"
)

func TestServicesKey(t *testing.T) {
	assert.Equal(t, "cache:services", servicesKey(""))
	assert.Equal(t, "cache:services:suv", servicesKey(domain.VehicleSUV))
}

func TestSubmitLockKey(t *testing.T) {
	assert.Equal(t, "lock:draft:d1:submit", submitLockKey("d1"))
}
