// Package command parses input lines and runs them against a task collection.
//
// Parse turns one line into a Command:
//
//	bye                          Bye
//	list                         List
//	done <n>                     Done
//	delete <n>                   Delete
//	find <query>                 Find
//	todo <desc>                  NewTask
//	event <desc> /at <timing>    NewTask
//	deadline <desc> /by <timing> NewTask
//
// NewTask keeps the raw line; its body is only parsed when the Engine adds
// the task. Indexes are 1-based at this boundary and never leave it as
// 0-based positions.
package command
