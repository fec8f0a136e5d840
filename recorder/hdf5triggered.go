package recorder

import (
	"fmt"

	hdf5 "github.com/sbinet/go-hdf5"
)

// hdf5TriggeredStore is TriggeredRecorder's real store: one rank-2 dataset
// per source, rows fixed at the window length, columns extendable — one
// column appended per capture. Grounded the same way as hdf5store, on
// original_source/common/h5rec.cpp's dataset helpers.
type hdf5TriggeredStore struct {
	filename string
	compress bool

	f             *hdf5.File
	entitiesGroup *hdf5.Group
	entityGroups  []*hdf5.Group
	dataDatasets  []*hdf5.Dataset
	columns       []uint
	windowLen     uint

	infoGroup     *hdf5.Group
	commentsGroup *hdf5.Group
	commentsCount int

	eventsGroup   *hdf5.Group
	codeDataset   *hdf5.Dataset
	senderDataset *hdf5.Dataset
	tsDataset     *hdf5.Dataset
	eventsLen     uint
}

func newHDF5TriggeredStore(filename string, compress bool) *hdf5TriggeredStore {
	return &hdf5TriggeredStore{filename: filename, compress: compress}
}

func (s *hdf5TriggeredStore) Open(sources []sourceInfo, windowLen int) error {
	s.windowLen = uint(windowLen)

	f, err := hdf5.CreateFile(s.filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("recorder: create %q: %w", s.filename, err)
	}
	s.f = f

	if s.infoGroup, err = f.CreateGroup("Info"); err != nil {
		return fmt.Errorf("recorder: create /Info: %w", err)
	}
	if s.commentsGroup, err = f.CreateGroup("Comments"); err != nil {
		return fmt.Errorf("recorder: create /Comments: %w", err)
	}

	if s.eventsGroup, err = f.CreateGroup("Events"); err != nil {
		return fmt.Errorf("recorder: create /Events: %w", err)
	}
	if s.codeDataset, err = createExtendable1D(s.eventsGroup, "Code", hdf5.T_NATIVE_INT32, defaultChunkSize, s.compress); err != nil {
		return err
	}
	if s.senderDataset, err = createExtendable1D(s.eventsGroup, "Sender", hdf5.T_NATIVE_INT32, defaultChunkSize, s.compress); err != nil {
		return err
	}
	if s.tsDataset, err = createExtendable1D(s.eventsGroup, "Timestamp", hdf5.T_NATIVE_DOUBLE, defaultChunkSize, s.compress); err != nil {
		return err
	}

	if s.entitiesGroup, err = f.CreateGroup("Entities"); err != nil {
		return fmt.Errorf("recorder: create /Entities: %w", err)
	}
	s.entityGroups = make([]*hdf5.Group, len(sources))
	s.dataDatasets = make([]*hdf5.Dataset, len(sources))
	s.columns = make([]uint, len(sources))

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

		dset, err := s.createRank2(grp, "Data")
		if err != nil {
			return fmt.Errorf("recorder: create Data dataset for entity %d: %w", src.ID, err)
		}
		s.dataDatasets[i] = dset

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

// createRank2 creates a [windowLen, 0] dataset whose second dimension is
// unlimited, chunked one column at a time.
func (s *hdf5TriggeredStore) createRank2(parent *hdf5.Group, name string) (*hdf5.Dataset, error) {
	dims := []uint{s.windowLen, 0}
	maxdims := []uint{s.windowLen, hdf5.S_UNLIMITED}
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
	if err := pl.SetChunk([]uint{s.windowLen, 1}); err != nil {
		return nil, fmt.Errorf("recorder: set chunk for %q: %w", name, err)
	}
	if s.compress {
		if err := pl.SetShuffle(); err != nil {
			return nil, fmt.Errorf("recorder: set shuffle for %q: %w", name, err)
		}
		if err := pl.SetDeflate(6); err != nil {
			return nil, fmt.Errorf("recorder: set deflate for %q: %w", name, err)
		}
	}

	return parent.CreateDatasetWith(name, hdf5.T_NATIVE_DOUBLE, dspace, pl)
}

func (s *hdf5TriggeredStore) WriteInfo(info Info) error {
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

func (s *hdf5TriggeredStore) AppendColumn(idx int, column []float64) error {
	dset := s.dataDatasets[idx]
	oldCols := s.columns[idx]
	newCols := oldCols + 1
	if err := dset.Resize([]uint{s.windowLen, newCols}); err != nil {
		return fmt.Errorf("recorder: resize entity %d window data: %w", idx, err)
	}

	fspace, err := dset.Space()
	if err != nil {
		return err
	}
	defer fspace.Close()
	if err := fspace.SelectHyperslab([]uint{0, oldCols}, nil, []uint{s.windowLen, 1}, nil); err != nil {
		return err
	}
	mspace, err := hdf5.CreateSimpleDataspace([]uint{s.windowLen, 1}, nil)
	if err != nil {
		return err
	}
	defer mspace.Close()
	if err := dset.WriteSubset(&column, mspace, fspace); err != nil {
		return fmt.Errorf("recorder: write entity %d window column: %w", idx, err)
	}
	s.columns[idx] = newCols
	return nil
}

func (s *hdf5TriggeredStore) AppendEvents(codes, senders []int32, timestamps []float64) error {
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

func (s *hdf5TriggeredStore) WriteComments(messages []string) error {
	for _, msg := range messages {
		s.commentsCount++
		key := fmt.Sprintf("%03d", s.commentsCount)
		if err := writeStringAttr(s.commentsGroup, key, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *hdf5TriggeredStore) Close() error {
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
