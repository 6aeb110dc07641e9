package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/allisson/userhub/internal/app"
	"github.com/allisson/userhub/internal/config"
	userUsecase "github.com/allisson/userhub/internal/user/usecase"
)

// RunCreateUser creates a user from the command line. The account is created
// without a password; a password setup email is sent through the configured
// mail backend.
func RunCreateUser(
	ctx context.Context,
	name, login, email, groupsCSV, allowCSV, denyCSV, format string,
) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	groupIDs, err := parseUUIDList(groupsCSV)
	if err != nil {
		return err
	}

	useCase, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	user, err := useCase.Create(ctx, &userUsecase.CreateUserInput{
		Name:           name,
		Login:          login,
		Email:          email,
		GroupIDs:       groupIDs,
		AllowFeatures:  parseCSV(allowCSV),
		DeniedFeatures: parseCSV(denyCSV),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"login": user.Login,
			"email": user.Email,
		})
	}

	fmt.Printf("User created successfully\n")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Name:  %s\n", user.Name)
	fmt.Printf("  Login: %s\n", user.Login)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("A password setup email was sent to %s\n", user.Email)
	return nil
}
