package race

type Status int

const (
	Waiting Status = iota
	InProgress
	Completed
	Expired
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case InProgress:
		return "inProgress"
	case Completed:
		return "completed"
	case Expired:
		return "expired"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
