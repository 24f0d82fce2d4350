// Package shell turns a raw command line into something the executor can run.
//
// Processing happens in the following steps:
//
// 1. The line is broken into tokens: words and the operators |, >, >>, <, 2>,
// 2>> and &>; see Tokenize. Quotes and backslashes are removed here, variable
// references are kept verbatim.
//
// 2. A trailing & marks the pipeline as a background job; see SplitBackground.
//
// 3. The tokens are split on | into stages; see Split.
//
// 4. Each stage has at most one redirection, which is removed from its argument
// list; see ResolveRedirection.
//
// Variable expansion, command lookup and process creation happen later in the
// executor.
package shell
