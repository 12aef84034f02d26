package types

type Channel uint8

const (
	Vx Channel = iota
	Vz
	Sigmaxx
	Sigmazz
	Sigmaxz
	C11
	C13
	C15
	C33
	C35
	C55
	Rho
)

var channelLabels = [...]string{
	Vx:      "Vx",
	Vz:      "Vz",
	Sigmaxx: "Sigmaxx",
	Sigmazz: "Sigmazz",
	Sigmaxz: "Sigmaxz",
	C11:     "c11",
	C13:     "c13",
	C15:     "c15",
	C33:     "c33",
	C35:     "c35",
	C55:     "c55",
	Rho:     "rho",
}

func (c Channel) String() string {
	if int(c) < len(channelLabels) {
		return channelLabels[c]
	}
	return "unknown"
}

// MaterialChannels lists the padded material fields in file order.
var MaterialChannels = []Channel{C11, C13, C15, C33, C35, C55, Rho}
