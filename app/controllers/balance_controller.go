package controllers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/WalletFox/internal/pkg/cache"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

const (
	balanceCacheKeyFormat = "balance:%s"
	balanceCacheTTL       = 10 * time.Second
)

// HandleWalletBalance renders the balance page for the connected wallet.
// While the RPC node is unreachable the page stays in its loading
// presentation; the next visit retries.
func HandleWalletBalance(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)

	lamports, ok := LookupBalance(wctx.Address)
	data := fiber.Map{
		"Address":      wctx.Address,
		"AddressShort": solana.Mask(wctx.Address),
		"Loading":      !ok,
	}
	if ok {
		data["Balance"] = solana.FormatSOL(lamports)
		data["Lamports"] = lamports
	}
	return renderPage(c, "balance", newLayout(c, "Balance"), data)
}

// LookupBalance resolves the lamport balance through the short-lived cache.
// The API layer shares this path so both surfaces see the same snapshot.
func LookupBalance(address string) (uint64, bool) {
	key := fmt.Sprintf(balanceCacheKeyFormat, address)
	if cached, err := cache.Get(key); err == nil {
		if lamports, err := strconv.ParseUint(cached, 10, 64); err == nil {
			return lamports, true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	lamports, err := solana.GetClient().Balance(ctx, address)
	if err != nil {
		log.Errorf("[Balance] RPC lookup for %s failed: %v", solana.Mask(address), err)
		return 0, false
	}

	if err := cache.Set(key, strconv.FormatUint(lamports, 10), balanceCacheTTL); err != nil {
		log.Errorf("[Balance] caching %s failed: %v", solana.Mask(address), err)
	}
	return lamports, true
}
