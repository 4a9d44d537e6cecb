// Command committee is the offline tool of the election committee members: it
// runs the key generation ceremony, registers the election on a node, derives
// the decrypt shares of a closed tally and can simulate a whole election
// locally.
package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/urfave/cli/v2"
	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/log"
)

var nodeURL = fmt.Sprintf("http://127.0.0.1:%d", config.DefaultAPIPort)

func main() {
	app := &cli.App{
		Name:  "committee",
		Usage: "election committee key ceremony and tally decryption",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log.level", Value: "warn", Usage: "log level (debug, info, warn, error)"},
		},
		Before: func(c *cli.Context) error {
			log.Init(c.String("log.level"), "stderr", nil)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "setup",
				Usage: "run the distributed key generation and write one file per member plus election.json",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "threshold", Aliases: []string{"t"}, Required: true, Usage: "members needed to decrypt"},
					&cli.IntFlag{Name: "members", Aliases: []string{"n"}, Required: true, Usage: "committee size"},
					&cli.IntFlag{Name: "options", Value: 2, Usage: "number of options of the election"},
					&cli.StringFlag{Name: "curve", Value: config.DefaultCurve, Usage: fmt.Sprintf("curve, one of %v", curves.Curves())},
					&cli.StringFlag{Name: "crs", Required: true, Usage: "common reference string, hex"},
					&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory"},
				},
				Action: setupCmd,
			},
			{
				Name:  "decrypt",
				Usage: "print the decrypt share of a member for an encrypted tally",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "member", Required: true, Usage: "member file written by setup"},
					&cli.StringFlag{Name: "tally", Required: true, Usage: "encrypted tally, hex"},
				},
				Action: decryptCmd,
			},
			{
				Name:  "register",
				Usage: "register the election file written by setup on a node",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "node", Value: nodeURL, Usage: "node API address"},
					&cli.StringFlag{Name: "election", Value: "election.json", Usage: "election file written by setup"},
					&cli.Uint64Flag{Name: "max-votes", Value: config.DefaultMaxVotes, Usage: "largest count of any option"},
				},
				Action: registerCmd,
			},
			{
				Name:  "share",
				Usage: "compute the decrypt share of a member on the closed tally of a node and send it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "node", Value: nodeURL, Usage: "node API address"},
					&cli.StringFlag{Name: "member", Required: true, Usage: "member file written by setup"},
					&cli.StringFlag{Name: "election", Required: true, Usage: "election id"},
				},
				Action: shareCmd,
			},
			{
				Name:  "pubkey",
				Usage: "print the bech32 election public key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "election", Value: "election.json", Usage: "election file written by setup"},
				},
				Action: pubkeyCmd,
			},
			{
				Name:  "simulate",
				Usage: "run a complete election in memory and check the decrypted result",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "threshold", Aliases: []string{"t"}, Value: 3},
					&cli.IntFlag{Name: "members", Aliases: []string{"n"}, Value: 5},
					&cli.IntFlag{Name: "options", Value: 4},
					&cli.IntFlag{Name: "voters", Value: 100},
					&cli.StringFlag{Name: "curve", Value: config.DefaultCurve},
				},
				Action: simulateCmd,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		color.Printf("<error>ERROR</>\t%s\n", err)
		os.Exit(1)
	}
}
