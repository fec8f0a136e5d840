package recorder

import (
	"fmt"

	hdf5 "github.com/sbinet/go-hdf5"

	"github.com/rtdyn/dynclamp/entity"
)

// defaultChunkSize is the default HDF5 chunk length for every extendable
// dataset (§3, §4.3): 1024 f64 samples per chunk.
const defaultChunkSize = 1024

// hdf5store is the real store, writing the exact §3/§6 layout via
// github.com/sbinet/go-hdf5. Grounded on original_source/common/h5rec.cpp's
// createGroup/createUnlimitedDataset/writeData/writeScalarAttribute helpers,
// ported group-for-group; group/dataset/attribute names match the §3/§6
// constants (ENTITIES_GROUP, INFO_GROUP, DATA_DATASET, ...) literally.
type hdf5store struct {
	filename  string
	compress  bool
	chunkSize int

	f             *hdf5.File
	entitiesGroup *hdf5.Group
	entityGroups  []*hdf5.Group
	dataDatasets  []*hdf5.Dataset
	dataLens      []uint

	infoGroup     *hdf5.Group
	commentsGroup *hdf5.Group
	commentsCount int

	eventsGroup   *hdf5.Group
	codeDataset   *hdf5.Dataset
	senderDataset *hdf5.Dataset
	tsDataset     *hdf5.Dataset
	eventsLen     uint
}

// newHDF5Store constructs an hdf5store writing to filename. compress
// selects GZIP+shuffle on every extendable dataset, per §3.
func newHDF5Store(filename string, compress bool) *hdf5store {
	return &hdf5store{filename: filename, compress: compress, chunkSize: defaultChunkSize}
}

// newHDF5StoreChunked is newHDF5Store with an explicit chunk length, used
// when Recorder is constructed with a non-default chunkSize.
func newHDF5StoreChunked(filename string, compress bool, chunkSize int) *hdf5store {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &hdf5store{filename: filename, compress: compress, chunkSize: chunkSize}
}

func (s *hdf5store) Open(sources []sourceInfo) error {
	f, err := hdf5.CreateFile(s.filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("recorder: create %q: %w", s.filename, err)
	}
	s.f = f

	s.infoGroup, err = f.CreateGroup("Info")
	if err != nil {
		return fmt.Errorf("recorder: create /Info: %w", err)
	}
	s.commentsGroup, err = f.CreateGroup("Comments")
	if err != nil {
		return fmt.Errorf("recorder: create /Comments: %w", err)
	}

	s.eventsGroup, err = f.CreateGroup("Events")
	if err != nil {
		return fmt.Errorf("recorder: create /Events: %w", err)
	}
	if s.codeDataset, err = createExtendable1D(s.eventsGroup, "Code", hdf5.T_NATIVE_INT32, s.chunkSize, s.compress); err != nil {
		return err
	}
	if s.senderDataset, err = createExtendable1D(s.eventsGroup, "Sender", hdf5.T_NATIVE_INT32, s.chunkSize, s.compress); err != nil {
		return err
	}
	if s.tsDataset, err = createExtendable1D(s.eventsGroup, "Timestamp", hdf5.T_NATIVE_DOUBLE, s.chunkSize, s.compress); err != nil {
		return err
	}

	s.entitiesGroup, err = f.CreateGroup("Entities")
	if err != nil {
		return fmt.Errorf("recorder: create /Entities: %w", err)
	}
	s.entityGroups = make([]*hdf5.Group, len(sources))
	s.dataDatasets = make([]*hdf5.Dataset, len(sources))
	s.dataLens = make([]uint, len(sources))

	for i, src := range sources {
		grp, err := s.entitiesGroup.CreateGroup(fmt.Sprintf("%04d", src.ID))
		if err != nil {
			return fmt.Errorf("recorder: create /Entities/%04d: %w", src.ID, err)
		}
		s.entityGroups[i] = grp

		if err := writeStringAttr(grp, "Name", src.Name); err != nil {
			return err
		}
		if err := writeStringAttr(grp, "Units", src.Units); err != nil {
			return err
		}

		dset, err := createExtendable1D(grp, "Data", hdf5.T_NATIVE_DOUBLE, s.chunkSize, s.compress)
		if err != nil {
			return fmt.Errorf("recorder: create Data dataset for entity %d: %w", src.ID, err)
		}
		s.dataDatasets[i] = dset

		if len(src.Metadata.Rows) > 0 {
			if err := s.writeMetadataMatrix(grp, src.Metadata); err != nil {
				return err
			}
		}

		paramsGroup, err := grp.CreateGroup("Parameters")
		if err != nil {
			return fmt.Errorf("recorder: create Parameters group for entity %d: %w", src.ID, err)
		}
		for name, value := range src.Parameters {
			if err := writeScalarF64Attr(paramsGroup, name, value); err != nil {
				return err
			}
		}
		if err := paramsGroup.Close(); err != nil {
			return err
		}
	}

	return nil
}

// createExtendable1D creates an unlimited-max 1-D dataset chunked at
// chunkSize, with GZIP+shuffle if compress (§3's "Data dataset (...) chunk
// size 1024, unlimited max, GZIP + shuffle if compression enabled"). Shared
// between hdf5store and hdf5TriggeredStore (both write the same /Events
// layout).
func createExtendable1D(parent *hdf5.Group, name string, dtype *hdf5.Datatype, chunkSize int, compress bool) (*hdf5.Dataset, error) {
	dims := []uint{0}
	maxdims := []uint{hdf5.S_UNLIMITED}
	dspace, err := hdf5.CreateSimpleDataspace(dims, maxdims)
	if err != nil {
		return nil, fmt.Errorf("recorder: dataspace for %q: %w", name, err)
	}
	defer dspace.Close()

	pl, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, fmt.Errorf("recorder: proplist for %q: %w", name, err)
	}
	defer pl.Close()
	if err := pl.SetChunk([]uint{uint(chunkSize)}); err != nil {
		return nil, fmt.Errorf("recorder: set chunk for %q: %w", name, err)
	}
	if compress {
		if err := pl.SetShuffle(); err != nil {
			return nil, fmt.Errorf("recorder: set shuffle for %q: %w", name, err)
		}
		if err := pl.SetDeflate(6); err != nil {
			return nil, fmt.Errorf("recorder: set deflate for %q: %w", name, err)
		}
	}

	return parent.CreateDatasetWith(name, dtype, dspace, pl)
}

func (s *hdf5store) writeMetadataMatrix(parent *hdf5.Group, m entity.Metadata) error {
	// Metadata is §3's rectangular matrix; entity.Metadata.Rows gives the
	// row-major data, flattened here for the fixed-size 2-D dataset (not
	// extendable — written once, unlike Data).
	rows, cols := len(m.Rows), m.Cols()
	flat := make([]float64, 0, rows*cols)
	for _, row := range m.Rows {
		flat = append(flat, row...)
	}
	dspace, err := hdf5.CreateSimpleDataspace([]uint{uint(rows), uint(cols)}, nil)
	if err != nil {
		return fmt.Errorf("recorder: metadata dataspace: %w", err)
	}
	defer dspace.Close()
	dset, err := parent.CreateDataset("Metadata", hdf5.T_NATIVE_DOUBLE, dspace)
	if err != nil {
		return fmt.Errorf("recorder: create Metadata dataset: %w", err)
	}
	defer dset.Close()
	if err := dset.Write(&flat); err != nil {
		return err
	}
	if m.Label != "" {
		return writeStringAttr(parent, "MetadataLabel", m.Label)
	}
	return nil
}

func (s *hdf5store) WriteInfo(info Info) error {
	if err := writeScalarI64Attr(s.infoGroup, "version", info.Version); err != nil {
		return err
	}
	if err := writeScalarF64Attr(s.infoGroup, "dt", info.Dt); err != nil {
		return err
	}
	if err := writeScalarF64Attr(s.infoGroup, "tend", info.Tend); err != nil {
		return err
	}
	if err := writeScalarI64Attr(s.infoGroup, "startTimeSec", info.StartTimeSec); err != nil {
		return err
	}
	return writeScalarI64Attr(s.infoGroup, "startTimeNsec", info.StartTimeNsec)
}

func (s *hdf5store) AppendSamples(idx int, chunk []float64) error {
	dset := s.dataDatasets[idx]
	oldLen := s.dataLens[idx]
	newLen := oldLen + uint(len(chunk))
	if err := dset.Resize([]uint{newLen}); err != nil {
		return fmt.Errorf("recorder: resize entity %d data: %w", idx, err)
	}
	if err := writeHyperslab(dset, oldLen, chunk); err != nil {
		return fmt.Errorf("recorder: write entity %d data: %w", idx, err)
	}
	s.dataLens[idx] = newLen
	return nil
}

func (s *hdf5store) AppendEvents(codes, senders []int32, timestamps []float64) error {
	n := len(codes)
	if n == 0 {
		return nil
	}
	newLen := s.eventsLen + uint(n)
	if err := s.codeDataset.Resize([]uint{newLen}); err != nil {
		return fmt.Errorf("recorder: resize /Events/Code: %w", err)
	}
	if err := writeHyperslabI32(s.codeDataset, s.eventsLen, codes); err != nil {
		return fmt.Errorf("recorder: write /Events/Code: %w", err)
	}
	if err := s.senderDataset.Resize([]uint{newLen}); err != nil {
		return fmt.Errorf("recorder: resize /Events/Sender: %w", err)
	}
	if err := writeHyperslabI32(s.senderDataset, s.eventsLen, senders); err != nil {
		return fmt.Errorf("recorder: write /Events/Sender: %w", err)
	}
	if err := s.tsDataset.Resize([]uint{newLen}); err != nil {
		return fmt.Errorf("recorder: resize /Events/Timestamp: %w", err)
	}
	if err := writeHyperslab(s.tsDataset, s.eventsLen, timestamps); err != nil {
		return fmt.Errorf("recorder: write /Events/Timestamp: %w", err)
	}
	s.eventsLen = newLen
	return nil
}

func (s *hdf5store) WriteComments(messages []string) error {
	for _, msg := range messages {
		s.commentsCount++
		key := fmt.Sprintf("%03d", s.commentsCount)
		if err := writeStringAttr(s.commentsGroup, key, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *hdf5store) Close() error {
	for _, g := range s.entityGroups {
		_ = g.Close()
	}
	_ = s.entitiesGroup.Close()
	_ = s.codeDataset.Close()
	_ = s.senderDataset.Close()
	_ = s.tsDataset.Close()
	_ = s.eventsGroup.Close()
	_ = s.infoGroup.Close()
	_ = s.commentsGroup.Close()
	return s.f.Close()
}

func writeHyperslab(dset *hdf5.Dataset, offset uint, data []float64) error {
	fspace, err := dset.Space()
	if err != nil {
		return err
	}
	defer fspace.Close()
	count := []uint{uint(len(data))}
	if err := fspace.SelectHyperslab([]uint{offset}, nil, count, nil); err != nil {
		return err
	}
	mspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer mspace.Close()
	return dset.WriteSubset(&data, mspace, fspace)
}

func writeHyperslabI32(dset *hdf5.Dataset, offset uint, data []int32) error {
	fspace, err := dset.Space()
	if err != nil {
		return err
	}
	defer fspace.Close()
	count := []uint{uint(len(data))}
	if err := fspace.SelectHyperslab([]uint{offset}, nil, count, nil); err != nil {
		return err
	}
	mspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer mspace.Close()
	return dset.WriteSubset(&data, mspace, fspace)
}

func writeStringAttr(parent *hdf5.Group, name, value string) error {
	dspace, err := hdf5.NewDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer dspace.Close()
	dtype, err := hdf5.NewDatatypeFromValue(value)
	if err != nil {
		return err
	}
	attr, err := parent.CreateAttribute(name, dtype, dspace)
	if err != nil {
		return err
	}
	defer attr.Close()
	return attr.Write(value, dtype)
}

func writeScalarF64Attr(parent *hdf5.Group, name string, value float64) error {
	dspace, err := hdf5.NewDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer dspace.Close()
	attr, err := parent.CreateAttribute(name, hdf5.T_NATIVE_DOUBLE, dspace)
	if err != nil {
		return err
	}
	defer attr.Close()
	return attr.Write(value, hdf5.T_NATIVE_DOUBLE)
}

func writeScalarI64Attr(parent *hdf5.Group, name string, value int64) error {
	dspace, err := hdf5.NewDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer dspace.Close()
	attr, err := parent.CreateAttribute(name, hdf5.T_NATIVE_LLONG, dspace)
	if err != nil {
		return err
	}
	defer attr.Close()
	return attr.Write(value, hdf5.T_NATIVE_LLONG)
}
