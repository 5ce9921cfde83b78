package fat32report

import (
	"github.com/fatwalk/fat32report/checkpoint"
)

// ChainFollower produces the ordered cluster chain starting at a given
// cluster, memoizing results and guarding against FAT cycles and links that
// point outside the volume.
type ChainFollower struct {
	fat    *FatTable
	total  uint32
	cache  map[uint32][]uint32
}

// NewChainFollower builds a ChainFollower over fat, bounding valid cluster
// numbers to bs.TotalClusters (clusters are numbered from 2).
func NewChainFollower(fat *FatTable, bs *BootSector) *ChainFollower {
	return &ChainFollower{
		fat:   fat,
		total: bs.TotalClusters,
		cache: make(map[uint32][]uint32),
	}
}

// Chain follows the FAT from start until a terminal link, a cycle, or an
// out-of-range link is found. Cycles and out-of-range links truncate the
// chain at the offending cluster and are reported as warnings rather than
// errors: the caller gets back whatever prefix of the chain is trustworthy.
func (f *ChainFollower) Chain(start uint32) ([]uint32, []Warning, error) {
	if start < 2 {
		return nil, nil, checkpoint.From(ErrInvalidClusterNumber)
	}

	if cached, ok := f.cache[start]; ok {
		return cached, nil, nil
	}

	maxValid := f.total + 1

	chain := []uint32{start}
	seen := map[uint32]bool{start: true}
	var warnings []Warning

	current := start
	for {
		link, err := f.fat.NextCluster(current)
		if err != nil {
			return nil, warnings, err
		}
		if link.Terminal() {
			break
		}

		next := link.Next
		if next > maxValid {
			warnings = append(warnings, Warning{
				Kind:    WarningOutOfRangeLink,
				Context: clusterContext(current),
				Err:     ErrOutOfRangeLink,
			})
			break
		}
		if seen[next] {
			warnings = append(warnings, Warning{
				Kind:    WarningCyclicChain,
				Context: clusterContext(next),
				Err:     ErrCyclicChain,
			})
			break
		}

		chain = append(chain, next)
		seen[next] = true
		current = next
	}

	f.cache[start] = chain
	return chain, warnings, nil
}
