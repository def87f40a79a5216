package snapshot

import "testing"

type fakeComponent struct {
	name  string
	value uint32
}

func (f *fakeComponent) Name() string { return f.name }
func (f *fakeComponent) Tag() Tag     { return KeepOnReset }

func (f *fakeComponent) SerializeState(w *Writer) {
	w.WriteU32(f.value)
}

func (f *fakeComponent) DeserializeState(r *Reader) error {
	v, err := r.ReadU32()
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := &fakeComponent{name: "thing", value: 0xDEADBEEF}
	blob := Save([]Component{src}, []byte("screenshot"))

	dst := &fakeComponent{name: "thing"}
	if err := Load(blob, []Component{dst}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dst.value != 0xDEADBEEF {
		t.Fatalf("expected value to round-trip, got %#x", dst.value)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	blob := []byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if err := Load(blob, nil); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestLoadRejectsIncompatibleMajorVersion(t *testing.T) {
	src := &fakeComponent{name: "thing", value: 1}
	blob := Save([]Component{src}, nil)
	blob[4] = CurrentVersion.Major + 1
	if err := Load(blob, []Component{src}); err == nil {
		t.Fatalf("expected error for incompatible major version")
	}
}
