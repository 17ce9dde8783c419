package archive

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/peloton/schema"
)

// PrintArchiveStatus prints archive status information.
func PrintArchiveStatus(status schema.ArchiveStatus) {
	fmt.Printf("Archive Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Schema Version: %d\n", status.SchemaVersion)
	if status.LastPushTime.IsZero() {
		fmt.Println("Last Push: never")
	} else {
		fmt.Printf("Last Push: %s\n", status.LastPushTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Entity Counts:")
	for _, kind := range append(slices.Clone(schema.AllKinds), "points") {
		fmt.Printf("  %s: %d\n", kind, status.EntityCounts[kind])
	}
	if len(status.TableSizeBytes) > 0 {
		fmt.Println("Table Sizes:")
		for _, table := range slices.Sorted(maps.Keys(status.TableSizeBytes)) {
			fmt.Printf("  %s: %d bytes\n", table, status.TableSizeBytes[table])
		}
	}
}
