package fat32report

import (
	"github.com/noxer/bytewriter"

	"github.com/fatwalk/fat32report/checkpoint"
)

// ClusterReader reads individual clusters, and whole cluster chains, from a
// ByteSource given a volume's geometry.
type ClusterReader struct {
	src        ByteSource
	geometry   *BootSector
	chainBytes map[uint32][]byte
}

// NewClusterReader builds a ClusterReader over src using bs's geometry.
func NewClusterReader(src ByteSource, bs *BootSector) *ClusterReader {
	return &ClusterReader{
		src:        src,
		geometry:   bs,
		chainBytes: make(map[uint32][]byte),
	}
}

// ReadCluster returns the cluster_size_bytes-long contents of cluster c.
// A short final read at the end of the image is reported as a
// WarningTruncatedCluster rather than failing outright; the returned bytes
// are zero-padded to the full cluster size.
func (r *ClusterReader) ReadCluster(c uint32) ([]byte, *Warning, error) {
	if c < 2 {
		return nil, nil, checkpoint.From(ErrInvalidClusterNumber)
	}

	off := int64(r.geometry.DataOffsetBytes) + int64(c-2)*int64(r.geometry.ClusterSizeBytes)
	buf := make([]byte, r.geometry.ClusterSizeBytes)
	_, short, err := readExact(r.src, off, buf)
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrTruncatedCluster)
	}
	if short {
		return buf, &Warning{
			Kind:    WarningTruncatedCluster,
			Context: clusterContext(c),
			Err:     ErrTruncatedCluster,
		}, nil
	}

	return buf, nil, nil
}

// ReadChainBytes concatenates ReadCluster over chain, in order, into a
// single buffer assembled with a fixed-capacity bytewriter rather than
// repeated append. Results are memoized by the chain's starting cluster.
func (r *ClusterReader) ReadChainBytes(start uint32, chain []uint32) ([]byte, []Warning, error) {
	if cached, ok := r.chainBytes[start]; ok {
		return cached, nil, nil
	}

	buf := make([]byte, int(r.geometry.ClusterSizeBytes)*len(chain))
	writer := bytewriter.New(buf)

	var warnings []Warning
	for _, c := range chain {
		data, warning, err := r.ReadCluster(c)
		if err != nil {
			return nil, warnings, err
		}
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if _, err := writer.Write(data); err != nil {
			return nil, warnings, checkpoint.Wrap(err, ErrTruncatedCluster)
		}
	}

	r.chainBytes[start] = buf
	return buf, warnings, nil
}
