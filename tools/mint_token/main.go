// Command mint_token prints a Bearer token for local testing of the
// reporting API. Tokens normally come from the main application's login
// flow; this shortcut exists so curl and E2E scripts can hit the service
// without a running auth stack.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pulsecrm/reporting/pkg/auth"
	"github.com/pulsecrm/reporting/pkg/constants"
)

func main() {
	userID := flag.String("user", "dev-user", "user id to embed in the token")
	name := flag.String("name", "Dev User", "display name")
	email := flag.String("email", "dev@example.com", "email address")
	tenantID := flag.String("tenant", "", "tenant id (required)")
	admin := flag.Bool("admin", false, "mint an admin token (unlocks raw analytics)")
	flag.Parse()

	if *tenantID == "" {
		log.Fatal("Usage: mint_token -tenant <tenant_id> [-user <id>] [-admin]")
	}

	profile := constants.ProfileStandard
	if *admin {
		profile = constants.ProfileAdmin
	}

	token, err := auth.GenerateToken(auth.UserSession{
		ID:        *userID,
		Name:      *name,
		Email:     *email,
		TenantID:  *tenantID,
		ProfileID: profile,
	})
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Print(token)
}
