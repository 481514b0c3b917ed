package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ManuelReschke/WalletFox/internal/pkg/cache"
	"github.com/ManuelReschke/WalletFox/internal/pkg/database"
)

const (
	tutorialViewsKey = "tutorial:counters:views"
	demoEventsKey    = "demo:counters:events"
)

// Demo event names tracked in the demo events hash
const (
	EventWalletConnect  = "wallet_connect"
	EventTransfer       = "transfer"
	EventMandateCreate  = "mandate_create"
	EventMandateExecute = "mandate_execute"
)

// AddTutorialView increments the pending view counter for a tutorial page in Redis
func AddTutorialView(pageID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(pageID), 10)
	return cache.GetClient().HIncrBy(ctx, tutorialViewsKey, field, 1).Err()
}

// AddEvent increments a demo event counter in Redis
func AddEvent(name string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, demoEventsKey, name, 1).Err()
}

// Events returns a snapshot of all demo event counters
func Events() (map[string]int64, error) {
	ctx := context.Background()
	data, err := cache.GetClient().HGetAll(ctx, demoEventsKey).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(data))
	for name, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		result[name] = n
	}
	return result, nil
}

// FlushAll flushes pending tutorial view counters to the database
func FlushAll() error {
	return flushHashToTable(tutorialViewsKey, "tutorial_pages", "view_count")
}

// flushHashToTable drains a Redis hash atomically and applies batched increments to a table column.
// Uses RENAME to a temporary key for atomic drain without losing in-flight increments.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	// Atomically move the hash to a temp key for draining
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		// Some Redis libs return redis.Nil; treat as empty
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	// Build batched UPDATE using CASE WHEN id THEN inc
	// Collect ids and increments; also sort ids for stable SQL
	type pair struct {
		id  uint64
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{id: id, inc: inc})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// Compose SQL
	// UPDATE tutorial_pages SET <column> = <column> + CASE id WHEN ? THEN ? ... END WHERE id IN ( ... )
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*2+len(pairs))
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id ")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	sql := builder.String()
	db := database.GetDB()
	if err := db.Exec(sql, args...).Error; err != nil {
		return err
	}
	return nil
}
