package hpack

// staticEntries is the number of entries in the fixed static table (§2.3.1
// of the IETF HPACK draft this codec targets).
const staticEntries = 61

type staticEntry struct {
	name, value string
}

// staticTable is the 61-entry static header table, fixed at compile time.
// Index 1 is ":authority". In the combined index space the dynamic table
// comes first, so static index i is looked up as i plus the number of
// dynamic entries.
var staticTable = [staticEntries]staticEntry{
	{":authority", ""},
	{":method", "GET"},
	{":method", "POST"},
	{":path", "/"},
	{":path", "/index.html"},
	{":scheme", "http"},
	{":scheme", "https"},
	{":status", "200"},
	{":status", "204"},
	{":status", "206"},
	{":status", "304"},
	{":status", "400"},
	{":status", "404"},
	{":status", "500"},
	{"accept-charset", ""},
	{"accept-encoding", ""},
	{"accept-language", ""},
	{"accept-ranges", ""},
	{"accept", ""},
	{"access-control-allow-origin", ""},
	{"age", ""},
	{"allow", ""},
	{"authorization", ""},
	{"cache-control", ""},
	{"content-disposition", ""},
	{"content-encoding", ""},
	{"content-language", ""},
	{"content-length", ""},
	{"content-location", ""},
	{"content-range", ""},
	{"content-type", ""},
	{"cookie", ""},
	{"date", ""},
	{"etag", ""},
	{"expect", ""},
	{"expires", ""},
	{"from", ""},
	{"host", ""},
	{"if-match", ""},
	{"if-modified-since", ""},
	{"if-none-match", ""},
	{"if-range", ""},
	{"if-unmodified-since", ""},
	{"last-modified", ""},
	{"link", ""},
	{"location", ""},
	{"max-forwards", ""},
	{"proxy-authenticate", ""},
	{"proxy-authorization", ""},
	{"range", ""},
	{"referer", ""},
	{"refresh", ""},
	{"retry-after", ""},
	{"server", ""},
	{"set-cookie", ""},
	{"strict-transport-security", ""},
	{"transfer-encoding", ""},
	{"user-agent", ""},
	{"vary", ""},
	{"via", ""},
	{"www-authenticate", ""},
}

// getStaticIndexed returns the name and value for a 1-based static table
// index. ok is false when idx is out of [1, staticEntries].
func getStaticIndexed(idx int) (name, value string, ok bool) {
	if idx < 1 || idx > staticEntries {
		return "", "", false
	}
	e := staticTable[idx-1]
	return e.name, e.value, true
}

// findStatic returns the smallest static table index whose name (and, if
// matchValue, value) equals the given strings. ok is false when no entry
// matches. When matchValue is true but no exact match exists, idx still
// reports a name-only match if one exists.
func findStatic(name, value string, matchValue bool) (idx int, valueMatched bool, ok bool) {
	nameOnly := 0
	for i, e := range staticTable {
		if e.name != name {
			continue
		}
		if matchValue && e.value == value {
			return i + 1, true, true
		}
		if nameOnly == 0 {
			nameOnly = i + 1
		}
	}
	if nameOnly != 0 {
		return nameOnly, false, true
	}
	return 0, false, false
}
