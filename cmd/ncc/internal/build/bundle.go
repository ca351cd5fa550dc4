package build

import (
	"context"
	"log"
	"os/exec"
)

// Bundle transpiles staged TypeScript sources into outDir with esbuild,
// run through npx. A missing npx or a failing bundle is logged and
// tolerated; only cancellation is returned as an error.
func Bundle(ctx context.Context, files []string, outDir string, logger *log.Logger) error {
	if len(files) == 0 {
		return nil
	}
	npx, err := exec.LookPath("npx")
	if err != nil {
		logger.Println("⚠️  npx/esbuild not found, skipping TypeScript bundle")
		return nil
	}

	logger.Printf("📦 Bundling %d TypeScript files...", len(files))
	args := append([]string{"esbuild"}, files...)
	args = append(args,
		"--bundle",
		"--outdir="+outDir,
		"--format=esm",
		"--platform=browser",
		"--minify",
	)
	output, err := exec.CommandContext(ctx, npx, args...).CombinedOutput()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		logger.Printf("⚠️  TypeScript build failed: %v\nOutput: %s", err, output)
		return nil
	}
	logger.Println("✅ TypeScript bundle complete")
	return nil
}
