package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reprise/internal/lookupcache"
	"reprise/internal/works"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the lookup response cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached works-database lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cache := lookupcache.New(cfg.Lookup.CachePath,
				time.Duration(cfg.Lookup.CacheTTLHours)*time.Hour, nil)

			entries := cache.List()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Lookup cache is empty")
				return nil
			}
			sort.Slice(entries, func(i, j int) bool {
				if entries[i].CachedAt.Equal(entries[j].CachedAt) {
					return entries[i].Key < entries[j].Key
				}
				return entries[i].CachedAt.After(entries[j].CachedAt)
			})

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				source, kind, query := splitCacheKey(entry.Key)
				rows = append(rows, []string{
					works.DisplayName(source),
					kind,
					query,
					fmt.Sprintf("%d", len(entry.Works)),
					entry.CachedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			table := renderTable(
				[]string{"Source", "Kind", "Query", "Works", "Cached"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			)
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "%d cached lookup(s) in %s\n", len(entries), cache.Path())
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cache := lookupcache.New(cfg.Lookup.CachePath, 0, nil)
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached lookup(s)\n", count)
			return nil
		},
	}
}

// splitCacheKey undoes lookupcache.Key for display. Queries may themselves
// contain separators, so only the first two are structural.
func splitCacheKey(key string) (source, kind, query string) {
	parts := strings.SplitN(key, "|", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	default:
		return key, "", ""
	}
}
