package sounddevice

// WaveStreamData is the per-instance streaming state every wave instance
// carries before its constructor runs. Drivers attach their buffer to it;
// this package only creates it.
type WaveStreamData struct {
	// Buffer is the driver's stream buffer, bound by the constructor and
	// cleared by the destructor.
	Buffer any
}

// initWaveStreamData gives a freshly listed wave instance its stream data.
// An instance that already has stream data is a programming error.
func initWaveStreamData(inst *Instance) error {
	if inst.stream != nil {
		return &InvariantError{Op: "wave init", Msg: "stream data already initialised for instance " + inst.id}
	}
	inst.stream = &WaveStreamData{}
	return nil
}
