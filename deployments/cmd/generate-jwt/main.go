package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/config"
)

func main() {
	userID := flag.String("user", "550e8400-e29b-41d4-a716-446655440000", "User ID (UUID)")
	email := flag.String("email", "test@example.com", "Email address")
	role := flag.String("role", "customer", "Role (customer|driver|admin)")
	flag.Parse()

	cfg := config.Load()
	jwtService := auth.NewJWTService(cfg.JWT)

	token, err := jwtService.GenerateToken(*userID, *email, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nJWT token generated\n\n")
	fmt.Printf("User ID:   %s\n", *userID)
	fmt.Printf("Email:     %s\n", *email)
	fmt.Printf("Role:      %s\n", *role)
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\nCopy this for API requests:\n")
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Printf("\nExample curl:\n")
	fmt.Printf("curl -X POST http://localhost:3000/orders \\\n")
	fmt.Printf("  -H 'Authorization: Bearer %s' \\\n", token)
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\n")
	fmt.Printf("    \"pickup_location\": \"Marche Capitale, Nouakchott\",\n")
	fmt.Printf("    \"delivery_location\": \"Tevragh Zeina, Nouakchott\",\n")
	fmt.Printf("    \"details\": \"two grocery bags\",\n")
	fmt.Printf("    \"recipient_phone\": \"+22212345678\"\n")
	fmt.Printf("  }'\n\n")
}
