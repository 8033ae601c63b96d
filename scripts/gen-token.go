package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/brewlog/brewbot-server-go/internal/util"
)

// Generates a gateway bearer token and the sha256 digest to put in
// GATEWAY_TOKEN_HASH. Pass a token as the first argument to only hash it.
func main() {
	var token string
	if len(os.Args) >= 2 {
		token = os.Args[1]
	} else {
		random, err := util.GenerateToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		token = fmt.Sprintf("%s.%s", uuid.NewString(), random)
	}

	fmt.Printf("token: %s\n", token)
	fmt.Printf("GATEWAY_TOKEN_HASH: %s\n", util.HashToken(token))
}
