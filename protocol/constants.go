package protocol

// Line delimiters
const (
	// LF terminates every command sent to the server.
	LF = "\n"

	// CRLF is accepted, along with LF, as a response line terminator.
	CRLF = "\r\n"

	// Space separates command tokens.
	Space = " "
)

// Block sentinels. A block response is the start sentinel, zero or more
// content lines, then the end sentinel. There is no escaping: content lines
// never equal a sentinel.
const (
	BlockStart = "START"
	BlockEnd   = "END"
)

// Status lines returned by single-line commands.
const (
	StatusDone          = "Done"
	StatusSpaceMissing  = "Space does not exist"
	StatusObjectMissing = "Object does not exist"
	StatusNotAssociated = "GID not associated"
)

// Command verbs.
//
// Wire formats (every float is rendered fixed-point with six decimals):
//
//	create space <name>
//	delete space <name>
//	list spaces
//	in <space> add object <name>
//	in <space> delete object <name>
//	in <space> associate point <lat> <lng> with <name>
//	in <space> disassociate <gid> with <name>
//	in <space> list objects
//	in <space> list associations with <name>
//	in <space> query within <minLat> <maxLat> <minLng> <maxLng>
//	in <space> query around <lat> <lng> for <dist><unit>
//	in <space> query nearest <num> to <lat> <lng>
const (
	CmdCreateSpace      = "create space"
	CmdDeleteSpace      = "delete space"
	CmdListSpaces       = "list spaces"
	CmdIn               = "in"
	CmdAddObject        = "add object"
	CmdDeleteObject     = "delete object"
	CmdAssociatePoint   = "associate point"
	CmdDisassociate     = "disassociate"
	CmdListObjects      = "list objects"
	CmdListAssociations = "list associations with"
	CmdQueryWithin      = "query within"
	CmdQueryAround      = "query around"
	CmdQueryNearest     = "query nearest"

	// KeywordWith joins a point or gid to the object it applies to.
	KeywordWith = "with"

	// KeywordFor introduces the distance of a radius query.
	KeywordFor = "for"

	// KeywordTo introduces the origin of a nearest-neighbour query.
	KeywordTo = "to"
)

// Distance units accepted by the radius query.
const (
	UnitMeters     = "m"
	UnitKilometers = "km"
	UnitMiles      = "mi"
	UnitYards      = "y"
	UnitFeet       = "ft"
)

// AssociationLabelWidth is the width of the label that prefixes every field
// of an association line ("gid=", "lat=", "lng=").
const AssociationLabelWidth = 4

// AssociationFields is the number of space-separated fields on an
// association line.
const AssociationFields = 3
