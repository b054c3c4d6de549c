package ecs

import "sort"

// StorageStats summarises what a Storage currently holds.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage and returns a snapshot of its contents.
// Archetypes are ordered by ID and singleton types by name.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: s.singletons.Len(),
	}

	for id, archetype := range s.archetypes {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}
	sort.Slice(stats.ArchetypeBreakdown, func(i, j int) bool {
		return stats.ArchetypeBreakdown[i].ID < stats.ArchetypeBreakdown[j].ID
	})

	s.singletons.ForEach(func(_ int, entry *singletonEntry) bool {
		stats.SingletonTypes = append(stats.SingletonTypes, entry.typ.String())
		return true
	})
	sort.Strings(stats.SingletonTypes)

	return stats
}
