package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
	tg "github.com/sidetrade/shift-service/internal/infrastructure/telegram"
	"github.com/sidetrade/shift-service/internal/usecase"
)

// UpdateSource is the inbound half of the Bot API transport.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64) ([]tg.Update, error)
}

// Bot polls Telegram for commands and answers them through the same
// usecases the HTTP layer uses. Subscriptions made here land in the
// shared registry, so broadcasts and the REST surface see them too.
type Bot struct {
	Source              UpdateSource
	Deliverer           domain.MessageDeliverer
	MarketUsecase       usecase.MarketUsecase
	ShiftUsecase        usecase.ShiftUsecase
	SubscriptionUsecase usecase.SubscriptionUsecase
	PollInterval        time.Duration

	offset int64
}

func NewBot(
	source UpdateSource,
	deliverer domain.MessageDeliverer,
	marketUC usecase.MarketUsecase,
	shiftUC usecase.ShiftUsecase,
	subscriptionUC usecase.SubscriptionUsecase,
	pollInterval time.Duration) *Bot {

	return &Bot{
		Source:              source,
		Deliverer:           deliverer,
		MarketUsecase:       marketUC,
		ShiftUsecase:        shiftUC,
		SubscriptionUsecase: subscriptionUC,
		PollInterval:        pollInterval,
	}
}

func (b *Bot) Run(ctx context.Context) {
	ticker := time.NewTicker(b.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.poll(ctx); err != nil {
				log.Printf("Bot poll error: %v\n", err)
			}
		}
	}
}

func (b *Bot) poll(ctx context.Context) error {
	updates, err := b.Source.GetUpdates(ctx, b.offset)
	if err != nil {
		return err
	}

	for _, update := range updates {
		if update.UpdateID >= b.offset {
			b.offset = update.UpdateID + 1
		}
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		b.handle(ctx, update.Message)
	}

	return nil
}

func (b *Bot) handle(ctx context.Context, msg *tg.IncomingMessage) {
	command, args := splitCommand(msg.Text)

	var reply string
	switch command {
	case "/start":
		reply = welcomeMessage
	case "/help", "❓ Help":
		reply = helpMessage
	case "/pairs", "📊 View Pairs":
		reply = b.pairsReply(ctx)
	case "/coins", "🪙 View Coins":
		reply = b.coinsReply(ctx)
	case "/quote":
		reply = b.quoteReply(ctx, args)
	case "💱 Get Quote":
		reply = quoteUsageMessage
	case "/subscribe", "🔔 Subscribe":
		reply = b.subscribeReply(msg)
	case "/unsubscribe":
		reply = b.unsubscribeReply(msg.Chat.ID)
	case "/status":
		reply = b.statusReply(msg.Chat.ID)
	default:
		return
	}

	if err := b.Deliverer.Deliver(ctx, msg.Chat.ID, reply); err != nil {
		log.Printf("Bot reply to chat %d failed: %v\n", msg.Chat.ID, err)
	}
}

// splitCommand separates the leading command word from its arguments
// and strips the @botname suffix Telegram appends in group chats.
// Keyboard button labels pass through untouched.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	if strings.HasPrefix(fields[0], "/") {
		command, _, _ := strings.Cut(fields[0], "@")
		return command, fields[1:]
	}
	return text, nil
}

func (b *Bot) pairsReply(ctx context.Context) string {
	snap, _, err := b.MarketUsecase.Serve(ctx, false)
	if err != nil || len(snap.Pairs) == 0 {
		return "❌ Unable to fetch pairs at the moment."
	}

	var sb strings.Builder
	sb.WriteString("📊 *Popular Trading Pairs*\n\n")
	for i, pq := range snap.Pairs {
		fmt.Fprintf(&sb, "%d. *%s → %s*\n",
			i+1,
			strings.ToUpper(pq.Pair.DepositCoin),
			strings.ToUpper(pq.Pair.SettleCoin))
		fmt.Fprintf(&sb, "   Rate: `%s`\n", pq.Quote.Rate)
		fmt.Fprintf(&sb, "   Min: %s | Max: %s\n\n", pq.Quote.DepositMin, pq.Quote.DepositMax)
	}
	sb.WriteString("\n💡 Use /quote <from> <to> for specific quotes")
	return sb.String()
}

const coinsReplyLimit = 50

func (b *Bot) coinsReply(ctx context.Context) string {
	coins, err := b.ShiftUsecase.GetCoins(ctx)
	if err != nil || len(coins) == 0 {
		return "❌ Unable to fetch coins at the moment."
	}

	shown := coins
	if len(shown) > coinsReplyLimit {
		shown = shown[:coinsReplyLimit]
	}

	var sb strings.Builder
	sb.WriteString("🪙 *Supported Cryptocurrencies*\n\n")
	for i, coin := range shown {
		fmt.Fprintf(&sb, "%d. *%s* - %s\n", i+1, strings.ToUpper(coin.Coin), coin.Name)
	}
	fmt.Fprintf(&sb, "\n_Showing %d of %d supported coins_\n", len(shown), len(coins))
	sb.WriteString("\n💡 Use /quote <coin1> <coin2> to get rates")
	return sb.String()
}

const quoteUsageMessage = "💡 Usage: /quote <from_coin> <to_coin>\n\nExample: /quote eth usdc"

func (b *Bot) quoteReply(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return quoteUsageMessage
	}

	from := strings.ToLower(args[0])
	to := strings.ToLower(args[1])

	quote, err := b.ShiftUsecase.GetQuote(ctx, domain.QuoteRequest{
		DepositCoin: from,
		SettleCoin:  to,
	})
	if err != nil {
		return fmt.Sprintf("❌ Unable to get quote for %s/%s.\n\nPlease check if both coins are supported using /coins",
			strings.ToUpper(from), strings.ToUpper(to))
	}

	return fmt.Sprintf(`💱 *Exchange Quote*

*Pair:* %s → %s
*Rate:* `+"`%s`"+`

*Limits:*
• Min: %s %s
• Max: %s %s

_Rates update every 30 seconds_`,
		strings.ToUpper(from), strings.ToUpper(to),
		quote.Rate,
		quote.DepositMin, strings.ToUpper(from),
		quote.DepositMax, strings.ToUpper(from))
}

func (b *Bot) subscribeReply(msg *tg.IncomingMessage) string {
	label := ""
	if msg.From != nil {
		label = msg.From.Username
		if label == "" {
			label = msg.From.FirstName
		}
	}

	if b.SubscriptionUsecase.Subscribe(msg.Chat.ID, label) {
		return "✅ You are already subscribed to updates!"
	}

	return `🔔 *Subscription Activated!*

You will now receive:
• Price updates every 30 seconds
• Market trend notifications

Use /unsubscribe to stop updates anytime.`
}

func (b *Bot) unsubscribeReply(chatID int64) string {
	if !b.SubscriptionUsecase.Unsubscribe(chatID) {
		return "❌ You are not currently subscribed."
	}
	return "✅ Successfully unsubscribed from updates."
}

func (b *Bot) statusReply(chatID int64) string {
	sub, ok := b.SubscriptionUsecase.Get(chatID)
	if !ok {
		return "📊 *Your Status*\n\nSubscription: ❌ Inactive\n\nUse /subscribe to get updates!"
	}

	return fmt.Sprintf("📊 *Your Status*\n\nSubscription: ✅ Active\nSubscribed: %s\n\nUse /unsubscribe to stop updates.",
		sub.SubscribedAt.Format("2006-01-02 15:04:05"))
}

const welcomeMessage = `🚀 *Welcome to the Shift Service Bot!*

Your gateway to seamless cross-chain token swaps

*What I can do:*
✅ Show real-time exchange rates
✅ Display popular trading pairs
✅ Provide swap quotes
✅ Send price update notifications

Get started with /help to see all commands!`

const helpMessage = `📖 *Bot Commands*

/start - Initialize the bot
/help - Show this help message
/pairs - View popular trading pairs with live rates
/coins - List all supported cryptocurrencies
/quote <from> <to> - Get exchange rate quote
  Example: /quote eth usdc

/subscribe - Get periodic price updates
/unsubscribe - Stop receiving updates
/status - Check your subscription status`
