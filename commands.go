package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/udpchat/udpchat/lib/chat"
	"github.com/udpchat/udpchat/lib/config"
	"github.com/udpchat/udpchat/lib/console"
	"github.com/udpchat/udpchat/lib/crypto"
	"github.com/udpchat/udpchat/lib/util/logger"
	"github.com/udpchat/udpchat/lib/util/signals"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "udpchat",
		Short: "Encrypted two-party chat over UDP",
		Long: `udpchat binds a local UDP port and announces itself to a rendezvous
address. The first peer heard from becomes the chat mate; every line typed
after that is sent to it encrypted with NaCl box.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(); err != nil {
				return err
			}
			applyLogLevel()
			return nil
		},
		RunE: runChat,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&config.CfgFile, "config", "", "config file (default $HOME/.udpchat/config.yaml)")
	flags.String("host", config.DefaultHost, "local host to bind, also the rendezvous host")
	flags.Int("port", config.DefaultPort, "local UDP port")
	flags.String("connect-host", "", "rendezvous host if different from --host")
	flags.Int("connect-port", config.DefaultConnectPort, "rendezvous UDP port")
	flags.String("quit-token", config.DefaultQuitToken, "line that ends the chat for both sides")
	flags.Bool("debug", false, "log debug output to stderr")

	bindFlag(root, "host", "host")
	bindFlag(root, "port", "port")
	bindFlag(root, "connect_host", "connect-host")
	bindFlag(root, "connect_port", "connect-port")
	bindFlag(root, "quit_token", "quit-token")
	bindFlag(root, "debug", "debug")

	root.AddCommand(newKeygenCmd(), newConfigCmd())
	return root
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		log.WithError(err).WithField("flag", flag).Debug("Failed to bind flag")
	}
}

func applyLogLevel() {
	level := viper.GetString("log_level")
	if viper.GetBool("debug") {
		level = "debug"
	}
	if level == "" {
		return
	}
	logger.Enable(os.Stderr, logger.ParseLevel(level))
	log.WithField("level", level).Debug("Logging enabled")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewChatConfigFromViper()
	if err != nil {
		return err
	}

	con, err := console.New(console.DefaultPrompt)
	if err != nil {
		return err
	}
	defer con.Close()
	out := con.Printer()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	id := signals.RegisterInterruptHandler(signals.Handler(cancel))
	defer signals.DeregisterInterruptHandler(id)
	go signals.Handle()
	defer signals.StopHandle()

	conn, err := chat.Listen(cfg.BindAddress())
	if err != nil {
		return err
	}
	session, err := chat.NewSession(conn, cfg.RendezvousAddress(), con, out,
		chat.WithQuitToken(cfg.QuitToken),
		chat.WithMaxDatagramSize(cfg.MaxDatagramSize),
	)
	if err != nil {
		conn.Close()
		return err
	}

	out.Info(fmt.Sprintf("Listening on %s as %s, announcing to %s",
		session.LocalAddr(), session.PublicKey().Fingerprint(), cfg.RendezvousAddress()))
	out.Info(fmt.Sprintf("Type %q to leave", cfg.QuitToken))

	term, err := session.Run(ctx)
	if err != nil {
		return oops.Wrapf(err, "chat session failed")
	}
	log.WithField("reason", term.String()).Debug("Chat finished")
	return nil
}

func newKeygenCmd() *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair and print its public key and fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				kp  crypto.KeyPair
				err error
			)
			if seed != "" {
				kp, err = crypto.KeyPairFromSeed([]byte(seed))
			} else {
				kp, err = crypto.GenerateKeyPair()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "public key:  %s\nfingerprint: %s\n",
				kp.Public, kp.Public.Fingerprint())
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "derive the key pair from this seed instead of randomly")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewChatConfigFromViper()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
