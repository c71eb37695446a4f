/*
Package ports defines the driven ports (interfaces) for the Tribble engine.

These interfaces decouple the workflow runtime from the places workflows come
from and the places sessions are kept, so the HTTP server and the CLI can run
against a loaded configuration file or an in-memory fixture alike.

# Key Interfaces

  - WorkflowSource: Resolves workflows by locale and name (a config bundle or memory).
  - Watchable: Signals that the workflow source changed on disk.
  - SessionStore: Persists and loads session state between requests.
  - Engine: Stateless session transitions used by adapters such as HTTP.
*/
package ports
