package domain

import "time"

// OpID identifies one in-flight background operation.
type OpID uint64

// OpKind enumerates the DeviceManager operations of §4.3.
type OpKind string

const (
	OpList               OpKind = "list"
	OpStart              OpKind = "start"
	OpStop               OpKind = "stop"
	OpCreate             OpKind = "create"
	OpDelete             OpKind = "delete"
	OpWipe               OpKind = "wipe"
	OpInstallSystemImage OpKind = "install_system_image"
	OpStreamLogs         OpKind = "stream_logs"
)

// CreatePhase is one of the four phases a create/install operation reports
// progress for.
type CreatePhase string

const (
	PhaseValidating  CreatePhase = "validating"
	PhaseDownloading CreatePhase = "downloading"
	PhaseExtracting  CreatePhase = "extracting"
	PhaseInstalling  CreatePhase = "installing"
)

// PhaseRange returns the inclusive [low, high] percent range a phase owns,
// per the table in §4.3.
func (p CreatePhase) PhaseRange() (low, high int) {
	switch p {
	case PhaseValidating:
		return 0, 20
	case PhaseDownloading:
		return 20, 70
	case PhaseExtracting:
		return 70, 90
	case PhaseInstalling:
		return 90, 100
	default:
		return 0, 100
	}
}

// Progress is one progress update emitted mid-operation.
type Progress struct {
	Op      OpID
	Kind    OpKind
	Phase   CreatePhase
	Percent int
}

// OpResult is the terminal outcome of a background operation, delivered on
// the EventLoop's single result channel.
type OpResult struct {
	Op         OpID
	Kind       OpKind
	Platform   Platform
	Identity   string
	IssuedAt   time.Time // monotonic stamp attached at enqueue; used to drop stale results
	Devices    []Record  // populated for OpList
	Err        error
	Warnings   []string // populated for OpList: non-fatal parse warnings
}

// CreateSpec is the input to a create operation.
type CreateSpec struct {
	Name      string
	Type      string // device_type (Android) or iOS device type identifier
	APILevel  uint16 // Android only
	Runtime   string // iOS only: runtime id (e.g. a specific iOS version)
	RAMMB     uint32 // Android only
	StorageMB uint32 // Android only
}
