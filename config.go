package govoro

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"
)

// ExampleConfig is a documented configuration file accepted by ReadConfig.
const ExampleConfig = `[Container]

#######################
# Required Parameters #
#######################

# Bounds of the container along each axis. The upper bound must be
# strictly larger than the lower one.
AX = 0
BX = 1
AY = 0
BY = 1
AZ = 0
BZ = 1

# Number of computational boxes along each axis. A good starting point
# puts around five particles in each box.
NX = 5
NY = 5
NZ = 5

#######################
# Optional Parameters #
#######################

# Periodicity of each axis. Default is false.
# PeriodicX = true
# PeriodicY = true
# PeriodicZ = true

# Store a radius with every particle and compute the radical tessellation.
# Default is false.
# Weighted = true

# Initial number of particles allocated per box. Default is 8.
# InitMem = 8

# Ceiling on the per-box particle capacity. Growing past it is fatal.
# MaxMem = 65536

# Absolute plane classification tolerance. Default is 1e-11 times the
# container diagonal.
# Tolerance = 1e-11
`

// Config is the top level of a gcfg configuration file.
type Config struct {
	Container ContainerConfig
}

// ContainerConfig describes the geometry of a container.
type ContainerConfig struct {
	AX, BX, AY, BY, AZ, BZ float64
	NX, NY, NZ             int

	PeriodicX, PeriodicY, PeriodicZ bool

	Weighted  bool
	InitMem   int
	MaxMem    int
	Tolerance float64
}

// CheckInit validates the configuration and fills in defaults.
func (cfg *ContainerConfig) CheckInit() error {
	if cfg.BX <= cfg.AX {
		return fmt.Errorf("BX = %g must be larger than AX = %g", cfg.BX, cfg.AX)
	} else if cfg.BY <= cfg.AY {
		return fmt.Errorf("BY = %g must be larger than AY = %g", cfg.BY, cfg.AY)
	} else if cfg.BZ <= cfg.AZ {
		return fmt.Errorf("BZ = %g must be larger than AZ = %g", cfg.BZ, cfg.AZ)
	}
	if cfg.NX <= 0 || cfg.NY <= 0 || cfg.NZ <= 0 {
		return fmt.Errorf("grid %dx%dx%d must be positive in every axis",
			cfg.NX, cfg.NY, cfg.NZ)
	}
	if cfg.InitMem < 0 || cfg.MaxMem < 0 {
		return fmt.Errorf("negative memory bounds InitMem = %d, MaxMem = %d",
			cfg.InitMem, cfg.MaxMem)
	}
	if cfg.InitMem == 0 {
		cfg.InitMem = 8
	}
	if cfg.MaxMem == 0 {
		cfg.MaxMem = DefaultMaxParticleMem
	}
	if cfg.InitMem > cfg.MaxMem {
		return fmt.Errorf("InitMem = %d exceeds MaxMem = %d",
			cfg.InitMem, cfg.MaxMem)
	}
	if cfg.Tolerance < 0 {
		return fmt.Errorf("negative Tolerance = %g", cfg.Tolerance)
	}
	return nil
}

// ReadConfig parses and validates a gcfg configuration file.
func ReadConfig(file string) (*Config, error) {
	cfg := &Config{}
	if err := gcfg.ReadFileInto(cfg, file); err != nil {
		return nil, err
	}
	if err := cfg.Container.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	return cfg, nil
}

func (cfg *ContainerConfig) apply(cb *containerBase) {
	if cfg.MaxMem > 0 {
		cb.SetMaxParticleMem(cfg.MaxMem)
	}
	if cfg.Tolerance > 0 {
		cb.SetTolerance(cfg.Tolerance)
	}
}

// NewContainer builds a plain container from the configuration. It fails
// when the configuration asks for the weighted variant.
func (cfg *ContainerConfig) NewContainer() (*Container, error) {
	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	if cfg.Weighted {
		return nil, fmt.Errorf("govoro: weighted configuration needs NewPolyContainer")
	}
	con, err := NewContainer(
		cfg.AX, cfg.BX, cfg.AY, cfg.BY, cfg.AZ, cfg.BZ,
		cfg.NX, cfg.NY, cfg.NZ,
		cfg.PeriodicX, cfg.PeriodicY, cfg.PeriodicZ, cfg.InitMem,
	)
	if err != nil {
		return nil, err
	}
	cfg.apply(&con.containerBase)
	return con, nil
}

// NewPolyContainer builds a radical-variant container from the
// configuration.
func (cfg *ContainerConfig) NewPolyContainer() (*PolyContainer, error) {
	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	con, err := NewPolyContainer(
		cfg.AX, cfg.BX, cfg.AY, cfg.BY, cfg.AZ, cfg.BZ,
		cfg.NX, cfg.NY, cfg.NZ,
		cfg.PeriodicX, cfg.PeriodicY, cfg.PeriodicZ, cfg.InitMem,
	)
	if err != nil {
		return nil, err
	}
	cfg.apply(&con.containerBase)
	return con, nil
}

// WallSpec is one entry of a YAML wall-list file.
type WallSpec struct {
	Type string `yaml:"type"` // plane, sphere, cylinder or cone

	// Center point: the plane offset point for planes, the center for
	// spheres, an axis point for cylinders, the apex for cones.
	XC float64 `yaml:"xc"`
	YC float64 `yaml:"yc"`
	ZC float64 `yaml:"zc"`

	// Direction: plane normal, or cylinder and cone axis.
	XA float64 `yaml:"xa"`
	YA float64 `yaml:"ya"`
	ZA float64 `yaml:"za"`

	// D is the plane parameter n.x <= d; R the sphere or cylinder radius;
	// Angle the cone half-opening in radians.
	D     float64 `yaml:"d"`
	R     float64 `yaml:"r"`
	Angle float64 `yaml:"angle"`

	ID int `yaml:"id"`
}

// Wall converts the spec into a wall, assigning DefaultWallID when no id
// is set.
func (ws *WallSpec) Wall() (Wall, error) {
	id := ws.ID
	if id == 0 {
		id = DefaultWallID
	} else if id > -7 {
		return nil, fmt.Errorf("govoro: wall id %d collides with container faces", id)
	}
	c := r3.Vector{X: ws.XC, Y: ws.YC, Z: ws.ZC}
	a := r3.Vector{X: ws.XA, Y: ws.YA, Z: ws.ZA}
	switch ws.Type {
	case "plane":
		return NewPlaneWall(a, ws.D, id), nil
	case "sphere":
		return NewSphereWall(c, ws.R, id), nil
	case "cylinder":
		return NewCylinderWall(c, a, ws.R, id), nil
	case "cone":
		return NewConeWall(c, a, ws.Angle, id), nil
	}
	return nil, fmt.Errorf("govoro: unknown wall type %q", ws.Type)
}

// ReadWalls parses a YAML wall-list stream: a sequence of WallSpec
// entries.
func ReadWalls(r io.Reader) ([]Wall, error) {
	var specs []WallSpec
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&specs); err != nil {
		return nil, err
	}
	walls := make([]Wall, len(specs))
	for i := range specs {
		w, err := specs[i].Wall()
		if err != nil {
			return nil, err
		}
		walls[i] = w
	}
	return walls, nil
}

// ReadWallsFile parses a YAML wall-list file.
func ReadWallsFile(name string) ([]Wall, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWalls(f)
}
