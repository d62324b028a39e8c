// Package services holds cross-cutting helpers shared by the generation
// subsystems: sentinel errors with wrapping for classification, and context
// annotation for correlation fields consumed by structured logging.
package services
