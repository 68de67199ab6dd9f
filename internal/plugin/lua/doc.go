// Package lua runs user prompt scripts with gopher-lua.
//
// A prompt script is a Lua file that defines a global function:
//
//	function prompt(count, last)
//	    return string.format("[%d] > ", count)
//	end
//
// count is the number of lines submitted so far in the session and last is
// the most recently submitted line ("" before the first one). The returned
// string becomes the prompt for the next line.
//
// Scripts run in a restricted State: only the base, table, string and math
// libraries are opened, the loader functions (dofile, loadfile, load,
// loadstring) are removed and each call is bounded by a timeout.
package lua
