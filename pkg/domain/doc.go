/*
Package domain contains the core domain models for the sessionprune pipeline.

It defines the pipeline steps, the run report and the error taxonomy shared by
every component. This package is kept pure and free of external dependencies
like I/O or subprocess handling, following Hexagonal Architecture principles.

# Key Entities

  - Step: A named stage of the decode -> mutate -> encode -> commit pipeline.
  - Report: The per-step outcome trail of a single run.
  - NotFoundError / BackupError / ConversionError / NoMatchError: the fatal
    failure categories, each mapping to a distinct process exit code.
*/
package domain
