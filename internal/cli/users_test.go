package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

func TestWriteRepairs(t *testing.T) {
	var buf bytes.Buffer
	writeRepairs(&buf, []ports.RoleRepair{
		{UserID: "multi-1", Email: "multi@example.com", Before: []string{"admin", "customer"}, After: domain.RoleCustomer, Demoted: true},
		{UserID: "legacy-1", Email: "legacy@example.com", Before: []string{"admin"}, After: domain.RoleAdmin},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "BEFORE")
	assert.Contains(t, lines[1], "admin,customer")
	assert.Contains(t, lines[1], "true")
	assert.Contains(t, lines[2], "legacy@example.com")
	assert.Equal(t, "2 account(s) repaired", lines[3])
}

func TestWriteRepairs_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeRepairs(&buf, nil)
	assert.Equal(t, "no legacy role assignments found\n", buf.String())
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["users"])

	sub := map[string]bool{}
	for _, c := range usersCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.True(t, sub["create-admin"])
	assert.True(t, sub["normalize-roles"])
}
