// Package script hosts Lua automation scripts over the event core.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries open. The host injects four global modules:
//
//	log.info(msg)                  session logging
//	events.emit(name, payload)     publish a registered event
//	events.on(name, fn)            subscribe fn(payload, name), returns a token
//	who.names() / who.entry(name)  read the who snapshot
//	room.players() / room.unknown() read the room buckets
//
// Script failures are published on the script error topic and never
// propagate beyond the host.
package script
