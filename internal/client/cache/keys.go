package cache

import (
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
)

// Key identifies one cached query. Collection keys share the "entries"
// prefix so a single InvalidatePrefix reaches every entry list.
type Key string

const (
	PrefixEntries       Key = "entries"
	PrefixEntry         Key = "entry/"
	PrefixEntryUUID     Key = "entry-uuid/"
	PrefixFolder        Key = "folder/"
	PrefixFolderEntries Key = PrefixEntries + "/folder/"
)

func EntryKey(id ids.ID) Key         { return PrefixEntry + Key(id.String()) }
func EntryUUIDKey(uuid string) Key   { return PrefixEntryUUID + Key(uuid) }
func EntriesKey() Key                { return PrefixEntries }
func FolderEntriesKey(id ids.ID) Key { return PrefixFolderEntries + Key(id.String()) }
func TagEntriesKey(name string) Key  { return PrefixEntries + "/tag/" + Key(name) }
func DateEntriesKey(date string) Key { return PrefixEntries + "/date/" + Key(date) }
func SearchKey(query string) Key     { return PrefixEntries + "/search/" + Key(query) }
func RangeKey(from, to string) Key   { return PrefixEntries + "/range/" + Key(from) + "/" + Key(to) }
func MediaKey(entry ids.ID) Key      { return "media/" + Key(entry.String()) }
func TagsKey() Key                   { return "tags" }
func FoldersKey() Key                { return "folders" }
func FolderKey(id ids.ID) Key        { return PrefixFolder + Key(id.String()) }
func SharedEntryKey(id string) Key   { return "shared/" + Key(id) }
func UserKey() Key                   { return "user/me" }
func DailyPromptKey(date string) Key { return "prompt/" + Key(date) }
