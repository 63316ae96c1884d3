package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ebfe/scard"
	"github.com/spf13/cobra"

	"github.com/gregLibert/emv-select/pkg/codetable"
	"github.com/gregLibert/emv-select/pkg/emv"
)

var (
	configPath  string
	readerName  string
	pseName     string
	assumeYes   bool
	waitForCard bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emv-select",
		Short: "Discover and select the payment application of an EMV card",
		Long: `emv-select walks the Payment System Environment directory of an EMV
contact card, filters the advertised applications against an acceptance
list, resolves which one to use by priority, selects it and initiates a
transaction with GET PROCESSING OPTIONS.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.Flags().StringVarP(&readerName, "reader", "r", "", "PC/SC reader to use (substring match)")
	rootCmd.Flags().StringVar(&pseName, "pse", "", "Payment System Environment name")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "confirm application selection without prompting")
	rootCmd.Flags().BoolVarP(&waitForCard, "wait", "w", false, "wait for a card instead of failing when none is present")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, card, err := connectToCard(config.Reader)
	if err != nil {
		return err
	}

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Printf("Warning: Failed to disconnect card: %v", err)
		}
	}()

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Printf("Warning: Failed to release context: %v", err)
		}
	}()

	discovery, err := config.Discovery(emv.NewCard(card), newPrompter(), codetable.Decode)
	if err != nil {
		return err
	}

	fmt.Println("\n=============================================")
	fmt.Printf(" Discovering applications via %s\n", config.PSE)
	fmt.Println("=============================================")

	app, err := discovery.Run()
	reportSkipped(discovery.Skipped())
	if err != nil {
		switch {
		case errors.Is(err, emv.ErrNoPSE):
			return fmt.Errorf("this card does not expose a payment system directory: %w", err)
		case errors.Is(err, emv.ErrNoApplication):
			return fmt.Errorf("no application matched the acceptance list: %w", err)
		case errors.Is(err, emv.ErrSelectionDeclined):
			fmt.Println(">> No application confirmed, leaving the card untouched.")
			return nil
		}
		return err
	}

	fmt.Printf("\n>> Selected application: %s\n", app)

	fmt.Println("\n=============================================")
	fmt.Println(" Initiating transaction (GET PROCESSING OPTIONS)")
	fmt.Println("=============================================")

	options, err := discovery.Card.InitiateTransaction(app)
	if err != nil {
		return fmt.Errorf("initiating transaction with %s: %w", app.Name, err)
	}

	fmt.Println(options.Describe())
	fmt.Println(">> Done")
	return nil
}

func loadConfig() (*emv.Config, error) {
	config := emv.DefaultConfig()
	if configPath != "" {
		loaded, err := emv.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	// Flags override the file.
	if readerName != "" {
		config.Reader = readerName
	}
	if pseName != "" {
		config.PSE = pseName
	}
	return config, nil
}

// connectToCard establishes the PC/SC context, picks a reader and connects
// to the card in it.
func connectToCard(preferred string) (*scard.Context, *scard.Card, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, nil, fmt.Errorf("establishing PC/SC context: %w", err)
	}

	reader, err := pickReader(ctx, preferred)
	if err != nil {
		releaseOnError(ctx)
		return nil, nil, err
	}

	fmt.Printf(">> Using reader: %s\n", reader)

	if waitForCard {
		if err := awaitCard(ctx, reader); err != nil {
			releaseOnError(ctx)
			return nil, nil, err
		}
	}

	// Exclusive: nothing else may transact on this reader while the
	// session runs. T=0 or T=1 only, to avoid "Parameter Incorrect"
	// errors (Error 57).
	card, err := ctx.Connect(reader, scard.ShareExclusive, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		releaseOnError(ctx)
		return nil, nil, fmt.Errorf("connecting to card: %w", err)
	}

	return ctx, card, nil
}

func releaseOnError(ctx *scard.Context) {
	if err := ctx.Release(); err != nil {
		log.Printf("Warning: Failed to release context during error handling: %v", err)
	}
}

func pickReader(ctx *scard.Context, preferred string) (string, error) {
	readers, err := ctx.ListReaders()
	if err != nil {
		return "", fmt.Errorf("listing readers: %w", err)
	}
	if len(readers) == 0 {
		return "", errors.New("no smart card reader found")
	}

	if preferred == "" {
		return readers[0], nil
	}
	for _, reader := range readers {
		if strings.Contains(reader, preferred) {
			return reader, nil
		}
	}
	return "", fmt.Errorf("no reader matching %q (available: %s)", preferred, strings.Join(readers, ", "))
}

// awaitCard blocks until a card is present in the reader.
func awaitCard(ctx *scard.Context, reader string) error {
	fmt.Println(">> Waiting for a card...")

	states := []scard.ReaderState{{Reader: reader, CurrentState: scard.StateUnaware}}
	for {
		if err := ctx.GetStatusChange(states, -1); err != nil {
			return fmt.Errorf("waiting for card: %w", err)
		}
		if states[0].EventState&scard.StatePresent != 0 {
			return nil
		}
		states[0].CurrentState = states[0].EventState
	}
}

func reportSkipped(skipped []emv.SkippedCandidate) {
	for _, candidate := range skipped {
		log.Printf("Warning: skipping application %X: %v", candidate.ADFName, candidate.Err)
	}
}

func newPrompter() emv.Prompter {
	if assumeYes {
		return autoPrompter{}
	}
	return &stdinPrompter{in: bufio.NewReader(os.Stdin)}
}

type stdinPrompter struct {
	in *bufio.Reader
}

func (p *stdinPrompter) Confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

type autoPrompter struct{}

func (autoPrompter) Confirm(question string) bool {
	fmt.Printf("%s [confirmed]\n", question)
	return true
}
