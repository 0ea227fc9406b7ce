// Command discordgw-bot is a minimal runnable wiring of this module:
// a logrus-backed Client, the default REST gateway resolver, and the
// gobwas/ws transport, logging the ready event and every MESSAGE_CREATE
// dispatch it receives.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/relaygate/discordgw"
	"github.com/relaygate/discordgw/event"
)

func main() {
	token := flag.String("token", os.Getenv("DISCORD_BOT_TOKEN"), "bot token")
	loadMembers := flag.Bool("load-members", false, "backfill every large guild's member list before going ready")
	flag.Parse()

	if *token == "" {
		logrus.Fatal("missing -token or DISCORD_BOT_TOKEN")
	}

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	client, err := gateway.NewClient(*token,
		gateway.WithLogger(gateway.NewLogrusLogger(log)),
		gateway.WithCommandRateLimiter(gateway.NewCommandRateLimiter()),
		gateway.WithIdentifyRateLimiter(gateway.NewLocalIdentifyRateLimiter()),
		gateway.WithLoadAllMembers(*loadMembers),
		gateway.WithGuildEvents(
			event.GuildCreate,
			event.MessageCreate,
			event.VoiceStateUpdate,
		),
	)
	if err != nil {
		logrus.Fatalf("failed to build client: %s", err)
	}

	client.On(event.ReadyEvent.String(), func(e *gateway.Event) {
		log.Infof("ready: logged in as %s", client.Me().Username)
	})
	client.On(event.MessageCreate.String(), func(e *gateway.Event) {
		log.Debugf("dispatch: %s", e.Name)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transport := gateway.NewTransport(client)
	if err := transport.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("transport stopped: %s", err)
	}
}
