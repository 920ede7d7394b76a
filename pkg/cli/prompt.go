package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// promptPassword asks for the database password without echoing it.
func promptPassword(user string) (string, error) {
	var password string
	prompt := &survey.Password{
		Message: fmt.Sprintf("Database password for %s:", user),
	}
	if err := survey.AskOne(prompt, &password); err != nil {
		return "", fmt.Errorf("password prompt: %w", err)
	}
	return password, nil
}
