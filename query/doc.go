// Package query implements the wire format of the ServerQuery protocol: the
// text command/response protocol spoken on the server's query port.
//
// The package performs no I/O. It turns typed arguments into a command line
// and turns the text read back from the server into records or typed errors.
//
// # Commands
//
// A command is a name followed by space-separated tokens:
//
//	line, err := query.FormatCommand("serveredit",
//	    query.Params{
//	        query.P("virtualserver_name", "tsjoin"),
//	        query.P("virtualserver_welcomemessage", "Welcome message"),
//	    })
//	// serveredit virtualserver_name=tsjoin virtualserver_welcomemessage=Welcome\smessage
//
// Values of key=value parameters are escaped with Escape. Bare string
// arguments are sent verbatim.
//
// # Responses
//
// Every response ends with a status line:
//
//	error id=0 msg=ok
//
// Commands whose name ends in "list" return one data line of |-separated
// records, commands ending in "info" (plus whoami and version) return one
// record, everything else returns only the status line. Classify maps a
// command name to its Shape and Parse decodes accordingly.
//
// # Errors
//
// A non-zero status id is returned as *ProtocolError. Status id 256 (unknown
// command) is returned as *UnknownCommandError, which ShouldRetry never
// considers transient.
package query
