package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
	"github.com/exileum/intercom-to-chatwoot/internal/intercom"
)

// SelectOption represents an option in a selection list
type SelectOption struct {
	ID   string
	Name string
	Info string // e.g., "(Channel::Email)"
}

var input = bufio.NewReader(os.Stdin)

// SetInput replaces the reader used by the prompt helpers.
func SetInput(r io.Reader) {
	input = bufio.NewReader(r)
}

func readLine() (string, error) {
	line, err := input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	// Trim whitespace to handle copy-paste issues
	return strings.TrimSpace(line), nil
}

// PromptString prompts for a string value with a default
func PromptString(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	line, err := readLine()
	if err != nil || line == "" {
		return defaultValue
	}
	return line
}

// PromptPassword prompts for a token without showing a default
func PromptPassword(prompt string) string {
	fmt.Printf("%s: ", prompt)

	line, err := readLine()
	if err != nil {
		return ""
	}
	return line
}

// PromptInt prompts for a positive integer value with a default
func PromptInt(prompt string, defaultValue int) int {
	return PromptIntMin(prompt, defaultValue, 1)
}

// PromptIntMin prompts for an integer of at least minValue with a default
func PromptIntMin(prompt string, defaultValue, minValue int) int {
	for {
		fmt.Printf("%s [%d]: ", prompt, defaultValue)

		line, err := readLine()
		if err != nil || line == "" {
			return defaultValue
		}

		value, err := strconv.Atoi(line)
		if err != nil {
			fmt.Printf("Invalid number. Please try again.\n")
			continue
		}
		if value < minValue {
			if minValue == 1 {
				fmt.Printf("Please enter a positive number.\n")
			} else {
				fmt.Printf("Please enter a number of at least %d.\n", minValue)
			}
			continue
		}
		return value
	}
}

// PromptBool prompts for a boolean value with a default
func PromptBool(prompt string, defaultValue bool) bool {
	value, err := Confirm(prompt, defaultValue)
	if err != nil {
		return defaultValue
	}
	return value
}

// Confirm prompts for a yes/no answer. An empty line selects defaultValue;
// closed input returns ErrNoInteractiveInput instead of assuming an answer.
func Confirm(prompt string, defaultValue bool) (bool, error) {
	for {
		if defaultValue {
			fmt.Printf("%s [Y/n]: ", prompt)
		} else {
			fmt.Printf("%s [y/N]: ", prompt)
		}

		line, err := readLine()
		if err != nil {
			fmt.Println()
			if errors.Is(err, io.EOF) {
				return false, fmt.Errorf("%w: %q", ErrNoInteractiveInput, prompt)
			}
			return false, err
		}
		if line == "" {
			return defaultValue, nil
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Printf("Please enter 'y' or 'n'.\n")
		}
	}
}

// PromptSelection displays a list of options and returns the selected item
func PromptSelection(prompt string, options []SelectOption) (SelectOption, error) {
	if len(options) == 0 {
		return SelectOption{}, fmt.Errorf("no options available")
	}

	fmt.Println(prompt)
	for i, option := range options {
		if option.Info != "" {
			fmt.Printf("%d. [%s] %s %s\n", i+1, option.ID, option.Name, option.Info)
		} else {
			fmt.Printf("%d. [%s] %s\n", i+1, option.ID, option.Name)
		}
	}

	for {
		fmt.Print("Enter number: ")
		line, err := readLine()
		if err != nil {
			return SelectOption{}, err
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Printf("Please enter a valid number.\n")
			continue
		}
		if choice < 1 || choice > len(options) {
			fmt.Printf("Please enter a number between 1 and %d.\n", len(options))
			continue
		}
		return options[choice-1], nil
	}
}

// InteractiveConfig completes cfg by prompting for anything the environment
// did not provide, validating credentials against both APIs as it goes.
func InteractiveConfig(ctx context.Context, cfg *Config) error {
	fmt.Println("=== Intercom to Chatwoot Migration Tool ===")
	fmt.Println()

	fmt.Println("Intercom Configuration:")
	if err := promptWithRetry("Intercom", func(attempt int) error {
		if attempt > 1 || cfg.Intercom.Token == "" || cfg.Intercom.Token == placeholderIntercomToken {
			cfg.Intercom.Token = PromptPassword("Access Token")
		} else {
			fmt.Printf("Access Token: ********** (from environment)\n")
		}

		fmt.Print("Validating Intercom token... ")
		return ValidateIntercomAuth(ctx, cfg.Intercom.APIURL, cfg.Intercom.Token)
	}); err != nil {
		return err
	}

	fmt.Println("\nChatwoot Configuration:")
	var inboxes []SelectOption
	if err := promptWithRetry("Chatwoot", func(attempt int) error {
		baseURL := cfg.Chatwoot.BaseURL
		if baseURL == placeholderChatwootURL {
			baseURL = ""
		}
		cfg.Chatwoot.BaseURL = PromptString("Base URL (host only)", baseURL)

		if attempt > 1 || cfg.Chatwoot.Token == "" || cfg.Chatwoot.Token == placeholderChatwootToken {
			cfg.Chatwoot.Token = PromptPassword("API Access Token (administrator or agent, not super admin)")
		} else {
			fmt.Printf("API Access Token: ********** (from environment)\n")
		}
		cfg.Chatwoot.AccountID = PromptInt("Account ID", cfg.Chatwoot.AccountID)

		fmt.Print("Validating Chatwoot token... ")
		var err error
		inboxes, err = ValidateChatwootAuth(ctx, cfg.Chatwoot.BaseURL, cfg.Chatwoot.Token, cfg.Chatwoot.AccountID)
		return err
	}); err != nil {
		return err
	}

	if cfg.Chatwoot.InboxID <= 0 {
		fmt.Printf("\n✓ Found %d inboxes\n\n", len(inboxes))
		selected, err := PromptSelection("Select target Chatwoot inbox:", inboxes)
		if err != nil {
			return fmt.Errorf("error selecting inbox: %w", err)
		}
		cfg.Chatwoot.InboxID, _ = strconv.Atoi(selected.ID)
	}

	return nil
}

func promptWithRetry(service string, attempt func(attempt int) error) error {
	const maxAttempts = 3

	for i := 1; i <= maxAttempts; i++ {
		if i > 1 {
			fmt.Printf("\nRetry attempt %d of %d\n", i, maxAttempts)
			fmt.Println("Please check your credentials and try again:")
		}

		err := attempt(i)
		if err == nil {
			fmt.Println("✓ Connected successfully")
			return nil
		}
		fmt.Printf("✗ %v\n", err)
	}

	return NewConfigurationError(service, fmt.Sprintf("credentials rejected after %d attempts", maxAttempts))
}

// ValidateIntercomAuth checks that the Intercom token is accepted
func ValidateIntercomAuth(ctx context.Context, apiURL, token string) error {
	return intercom.NewClient(apiURL, token).TestConnection(ctx)
}

// ValidateChatwootAuth validates the Chatwoot token and returns the account inboxes
func ValidateChatwootAuth(ctx context.Context, baseURL, token string, accountID int) ([]SelectOption, error) {
	client, err := chatwoot.NewClient(baseURL, token, accountID)
	if err != nil {
		return nil, err
	}

	inboxes, err := client.ListInboxes(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]SelectOption, len(inboxes))
	for i, inbox := range inboxes {
		options[i] = SelectOption{
			ID:   strconv.Itoa(inbox.ID),
			Name: inbox.Name,
			Info: fmt.Sprintf("(%s)", inbox.ChannelType),
		}
	}
	return options, nil
}
